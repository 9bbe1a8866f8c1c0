package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Recently matched partners are recorded as per-pair Redis keys with a
// short TTL. Keys are shaped {requester}:match_users:{matcher} so one
// SCAN over the requester's prefix lists everyone to exclude.

const matchedUserKeySeparator = ":match_users:"

// HistoryManager records which partners a requester has already been
// shown, so the candidate search can exclude them until the entries
// expire.
type HistoryManager struct {
	rdb          *redis.Client
	exclusionTTL time.Duration
	log          *zap.SugaredLogger
}

func NewHistoryManager(rdb *redis.Client, exclusionTTL time.Duration, log *zap.SugaredLogger) *HistoryManager {
	if exclusionTTL <= 0 {
		exclusionTTL = 72 * time.Hour
	}
	return &HistoryManager{
		rdb:          rdb,
		exclusionTTL: exclusionTTL,
		log:          log,
	}
}

// AddMatchedUser records that matcherID was handed to requesterID. The
// value carries the partner's display name for debugging.
func (h *HistoryManager) AddMatchedUser(ctx context.Context, requesterID, matcherID, matcherName string) error {
	key := matchedUserKey(requesterID, matcherID)
	if err := h.rdb.Set(ctx, key, matcherName, h.exclusionTTL).Err(); err != nil {
		return fmt.Errorf("failed to record matched user %s for %s: %w", matcherID, requesterID, err)
	}
	return nil
}

// GetMatchedUserIDs lists the partner IDs still inside the exclusion
// window for the requester.
func (h *HistoryManager) GetMatchedUserIDs(ctx context.Context, requesterID string) ([]string, error) {
	keys, err := h.scanKeys(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if id := matcherIDFromKey(key); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ClearMatchedUsers drops every exclusion entry for the requester.
// Returns the number of entries removed.
func (h *HistoryManager) ClearMatchedUsers(ctx context.Context, requesterID string) (int64, error) {
	keys, err := h.scanKeys(ctx, requesterID)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := h.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to clear matched users for %s: %w", requesterID, err)
	}
	return removed, nil
}

func (h *HistoryManager) scanKeys(ctx context.Context, requesterID string) ([]string, error) {
	pattern := requesterID + matchedUserKeySeparator + "*"

	var keys []string
	var cursor uint64
	for {
		batch, next, err := h.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan matched users for %s: %w", requesterID, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

func matchedUserKey(requesterID, matcherID string) string {
	return requesterID + matchedUserKeySeparator + matcherID
}

// matcherIDFromKey extracts the trailing matcher segment; empty when
// the key does not follow the expected shape.
func matcherIDFromKey(key string) string {
	idx := strings.Index(key, matchedUserKeySeparator)
	if idx < 0 {
		return ""
	}
	return key[idx+len(matchedUserKeySeparator):]
}
