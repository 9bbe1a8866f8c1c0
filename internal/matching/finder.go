package matching

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/smartnewbieproject/solo-backend/internal/vector"
)

// CandidateFinder pulls nearest-neighbor candidates for a requester
// from the vector service, excluding the requester and any partner
// still inside the exclusion window. It over-fetches so that diversity
// re-ranking has enough material to work with.
type CandidateFinder struct {
	vectors   *vector.Client
	history   *HistoryManager
	overFetch int
	log       *zap.SugaredLogger
}

func NewCandidateFinder(vectors *vector.Client, history *HistoryManager, overFetch int, log *zap.SugaredLogger) *CandidateFinder {
	if overFetch < 1 {
		overFetch = 3
	}
	return &CandidateFinder{
		vectors:   vectors,
		history:   history,
		overFetch: overFetch,
		log:       log,
	}
}

// FindCandidates returns up to limit*overFetch similarity hits for the
// requester, most similar first. A requester without a stored
// embedding gets an empty result, not an error. The payload filter is
// identical for every matchType; the type is carried for logging.
func (f *CandidateFinder) FindCandidates(ctx context.Context, requester *UserPreferenceSummary, limit int, matchType MatchType) ([]Candidate, error) {
	point, err := f.vectors.Retrieve(ctx, requester.UserID)
	if errors.Is(err, vector.ErrNotFound) {
		f.log.Debugw("no embedding stored for user", "user_id", requester.UserID, "type", matchType)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding for %s: %w", requester.UserID, err)
	}

	excluded, err := f.history.GetMatchedUserIDs(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}
	excluded = append(excluded, requester.UserID)

	filter := vector.NewFilter().
		MustMatch("type", "user").
		MustNotIDs(excluded)
	if opposite := oppositeGender(requester.Gender); opposite != "" {
		filter = filter.MustMatch("gender", opposite)
	}

	hits, err := f.vectors.Search(ctx, point.Vector, limit*f.overFetch, filter)
	if err != nil {
		return nil, fmt.Errorf("candidate search failed for %s: %w", requester.UserID, err)
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, Candidate{
			UserID:     hit.ID,
			Similarity: clampUnit(hit.Score),
		})
	}
	return candidates, nil
}

func oppositeGender(gender string) string {
	switch gender {
	case "male":
		return "female"
	case "female":
		return "male"
	default:
		return ""
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
