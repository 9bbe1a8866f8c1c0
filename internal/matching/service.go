package matching

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Service is the read side of the matching engine: ranked candidate
// lookup, the latest-partner view, and pair scoring.
type Service interface {
	// FindMatches returns up to limit candidates for the user, ranked
	// by final weight (similarity blended with diversity). matchType
	// records what the caller intends to create from the result.
	FindMatches(ctx context.Context, userID string, limit int, matchType MatchType) ([]WeightedPartner, error)

	// GetLatestPartner runs the view state machine over the user's
	// most recent match.
	GetLatestPartner(ctx context.Context, userID string) (*MatchDetails, error)

	// GetTotalMatchingCount counts every match ever published to the
	// user.
	GetTotalMatchingCount(ctx context.Context, userID string) (int64, error)

	// ScorePair computes the weighted preference score between two
	// users, folding in the given vector similarity.
	ScorePair(ctx context.Context, myID, otherID string, similarity float64) (float64, error)

	// SetNotFoundHook installs a side effect that runs before a
	// not-found view result is returned.
	SetNotFoundHook(hook NotFoundHook)
}

type service struct {
	repo       Repository
	finder     *CandidateFinder
	stats      *StatsManager
	router     *Router
	weighter   *Weighter
	notFoundFn NotFoundHook
	candidates int
	log        *zap.SugaredLogger
}

func NewService(
	repo Repository,
	finder *CandidateFinder,
	stats *StatsManager,
	router *Router,
	weighter *Weighter,
	candidateLimit int,
	log *zap.SugaredLogger,
) Service {
	if candidateLimit <= 0 {
		candidateLimit = 10
	}
	return &service{
		repo:       repo,
		finder:     finder,
		stats:      stats,
		router:     router,
		weighter:   weighter,
		candidates: candidateLimit,
		log:        log,
	}
}

func (s *service) SetNotFoundHook(hook NotFoundHook) {
	s.notFoundFn = hook
}

func (s *service) FindMatches(ctx context.Context, userID string, limit int, matchType MatchType) ([]WeightedPartner, error) {
	if limit <= 0 || limit > s.candidates {
		limit = s.candidates
	}

	summary, err := s.repo.GetPreferenceSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.finder.FindCandidates(ctx, summary, limit, matchType)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		s.log.Infow("no candidates found", "user_id", userID, "type", matchType)
		return nil, nil
	}

	partners := s.stats.CreateWeightedPartners(ctx, candidates)
	sort.SliceStable(partners, func(i, j int) bool {
		return partners[i].FinalWeight > partners[j].FinalWeight
	})

	if len(partners) > limit {
		partners = partners[:limit]
	}
	return partners, nil
}

func (s *service) GetLatestPartner(ctx context.Context, userID string) (*MatchDetails, error) {
	latest, err := s.repo.GetLatestMatch(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := s.router.Route(ctx, latest, s.repo.GetPartnerProfile, s.notFoundFn)
	return details, nil
}

func (s *service) GetTotalMatchingCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountMatches(ctx, userID)
}

func (s *service) ScorePair(ctx context.Context, myID, otherID string, similarity float64) (float64, error) {
	mine, err := s.repo.GetPreferenceSummary(ctx, myID)
	if err != nil {
		return 0, fmt.Errorf("failed to load requester preferences: %w", err)
	}
	theirs, err := s.repo.GetPreferenceSummary(ctx, otherID)
	if err != nil {
		return 0, fmt.Errorf("failed to load partner preferences: %w", err)
	}
	return s.weighter.Score(mine, theirs, similarity), nil
}
