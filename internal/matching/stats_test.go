package matching

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartnewbieproject/solo-backend/internal/common/logger"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestStats(t *testing.T) (*miniredis.Miniredis, *StatsManager) {
	t.Helper()
	mr, client := newTestRedis(t)
	return mr, NewStatsManager(client, 0.8, 720*time.Hour, logger.Nop())
}

func TestGetMatchCountMissingKeyIsZero(t *testing.T) {
	_, stats := newTestStats(t)

	count, err := stats.GetMatchCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestIncrementMatchCountSetsTTL(t *testing.T) {
	mr, stats := newTestStats(t)
	ctx := context.Background()

	require.NoError(t, stats.IncrementMatchCount(ctx, "u1"))
	require.NoError(t, stats.IncrementMatchCount(ctx, "u1"))

	count, err := stats.GetMatchCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	ttl := mr.TTL("user:u1:match_count")
	assert.Greater(t, ttl, 719*time.Hour)
	assert.LessOrEqual(t, ttl, 720*time.Hour)
}

func TestDiversityScoreStrictlyDecreasing(t *testing.T) {
	_, stats := newTestStats(t)

	assert.Equal(t, 1.0, stats.DiversityScore(0))
	prev := stats.DiversityScore(0)
	for count := int64(1); count <= 10; count++ {
		score := stats.DiversityScore(count)
		assert.Less(t, score, prev, "count %d", count)
		assert.Greater(t, score, 0.0)
		prev = score
	}
	assert.InDelta(t, 0.8, stats.DiversityScore(1), 1e-9)
	assert.InDelta(t, 0.64, stats.DiversityScore(2), 1e-9)
}

func TestCreateWeightedPartnersBlendsSimilarityAndDiversity(t *testing.T) {
	mr, stats := newTestStats(t)
	ctx := context.Background()

	// popular has been matched three times, fresh never.
	mr.Set("user:popular:match_count", "3")

	partners := stats.CreateWeightedPartners(ctx, []Candidate{
		{UserID: "popular", Similarity: 0.9},
		{UserID: "fresh", Similarity: 0.7},
	})
	require.Len(t, partners, 2)

	popular, fresh := partners[0], partners[1]
	assert.Equal(t, int64(3), popular.MatchCount)
	assert.InDelta(t, 0.512, popular.DiversityScore, 1e-9)
	assert.InDelta(t, 0.5*0.9+0.5*0.512, popular.FinalWeight, 1e-9)

	assert.Equal(t, int64(0), fresh.MatchCount)
	assert.Equal(t, 1.0, fresh.DiversityScore)
	assert.InDelta(t, 0.5*0.7+0.5*1.0, fresh.FinalWeight, 1e-9)

	// Diversity lifts the never-matched user above the popular one.
	assert.Greater(t, fresh.FinalWeight, popular.FinalWeight)
}

func TestCreateWeightedPartnersToleratesCounterErrors(t *testing.T) {
	mr, client := newTestRedis(t)
	stats := NewStatsManager(client, 0.8, time.Hour, logger.Nop())
	mr.Close()

	partners := stats.CreateWeightedPartners(context.Background(), []Candidate{
		{UserID: "u1", Similarity: 0.6},
	})
	require.Len(t, partners, 1)
	assert.Equal(t, 1.0, partners[0].DiversityScore)
}
