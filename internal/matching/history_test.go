package matching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartnewbieproject/solo-backend/internal/common/logger"
)

func newTestHistory(t *testing.T) (*HistoryManager, func() time.Duration) {
	t.Helper()
	mr, client := newTestRedis(t)
	h := NewHistoryManager(client, 72*time.Hour, logger.Nop())
	return h, func() time.Duration { return mr.TTL("req1:match_users:m1") }
}

func TestAddAndListMatchedUsers(t *testing.T) {
	h, ttl := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.AddMatchedUser(ctx, "req1", "m1", "Hana"))
	require.NoError(t, h.AddMatchedUser(ctx, "req1", "m2", "Jiwoo"))
	require.NoError(t, h.AddMatchedUser(ctx, "req2", "m3", "Minji"))

	ids, err := h.GetMatchedUserIDs(ctx, "req1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m1", "m2"}, ids)

	other, err := h.GetMatchedUserIDs(ctx, "req2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m3"}, other)

	assert.Greater(t, ttl(), 71*time.Hour)
	assert.LessOrEqual(t, ttl(), 72*time.Hour)
}

func TestGetMatchedUserIDsEmpty(t *testing.T) {
	h, _ := newTestHistory(t)

	ids, err := h.GetMatchedUserIDs(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClearMatchedUsers(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.AddMatchedUser(ctx, "req1", "m1", "Hana"))
	require.NoError(t, h.AddMatchedUser(ctx, "req1", "m2", "Jiwoo"))
	require.NoError(t, h.AddMatchedUser(ctx, "req2", "m3", "Minji"))

	removed, err := h.ClearMatchedUsers(ctx, "req1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	ids, err := h.GetMatchedUserIDs(ctx, "req1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Other requesters keep their entries.
	other, err := h.GetMatchedUserIDs(ctx, "req2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestClearMatchedUsersNothingToRemove(t *testing.T) {
	h, _ := newTestHistory(t)

	removed, err := h.ClearMatchedUsers(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestMatcherIDFromKey(t *testing.T) {
	assert.Equal(t, "m1", matcherIDFromKey("req1:match_users:m1"))
	assert.Equal(t, "", matcherIDFromKey("unrelated-key"))
}
