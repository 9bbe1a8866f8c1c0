package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Per-user match counters live in Redis with a 30-day TTL. The counter
// feeds the diversity score that damps repeatedly-picked profiles.

const matchCountKeyFormat = "user:%s:match_count"

// StatsManager tracks how often each user has been handed out as a
// partner and re-ranks candidates against that history.
type StatsManager struct {
	rdb           *redis.Client
	decay         float64
	matchCountTTL time.Duration
	log           *zap.SugaredLogger
}

func NewStatsManager(rdb *redis.Client, decay float64, matchCountTTL time.Duration, log *zap.SugaredLogger) *StatsManager {
	if decay <= 0 || decay >= 1 {
		decay = 0.8
	}
	if matchCountTTL <= 0 {
		matchCountTTL = 720 * time.Hour
	}
	return &StatsManager{
		rdb:           rdb,
		decay:         decay,
		matchCountTTL: matchCountTTL,
		log:           log,
	}
}

// GetMatchCount returns how many times the user was chosen as a
// partner within the TTL horizon. A missing key counts as zero.
func (s *StatsManager) GetMatchCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.rdb.Get(ctx, s.matchCountKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get match count for %s: %w", userID, err)
	}
	return count, nil
}

// IncrementMatchCount bumps the counter and refreshes its TTL in one
// round trip.
func (s *StatsManager) IncrementMatchCount(ctx context.Context, userID string) error {
	key := s.matchCountKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.matchCountTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment match count for %s: %w", userID, err)
	}
	return nil
}

// CreateWeightedPartners re-ranks candidates by blending raw vector
// similarity with the diversity score derived from each candidate's
// match counter. A counter read failure leaves that candidate at full
// diversity rather than dropping them.
func (s *StatsManager) CreateWeightedPartners(ctx context.Context, candidates []Candidate) []WeightedPartner {
	partners := make([]WeightedPartner, 0, len(candidates))
	for _, candidate := range candidates {
		count, err := s.GetMatchCount(ctx, candidate.UserID)
		if err != nil {
			s.log.Warnw("match count unavailable, assuming zero",
				"user_id", candidate.UserID,
				"error", err,
			)
			count = 0
		}

		diversity := s.DiversityScore(count)
		partners = append(partners, WeightedPartner{
			Candidate:      candidate,
			MatchCount:     count,
			DiversityScore: diversity,
			FinalWeight:    0.5*candidate.Similarity + 0.5*diversity,
		})
	}
	return partners
}

// DiversityScore is decay^matchCount: 1.0 for never-matched users,
// strictly decreasing as the counter grows.
func (s *StatsManager) DiversityScore(matchCount int64) float64 {
	if matchCount <= 0 {
		return 1.0
	}
	return math.Pow(s.decay, float64(matchCount))
}

func (s *StatsManager) matchCountKey(userID string) string {
	return fmt.Sprintf(matchCountKeyFormat, userID)
}
