package matching

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// PartnerResolver loads the partner card for a matcher ID.
type PartnerResolver func(ctx context.Context, matcherID string) (*PartnerProfile, error)

// NotFoundHook runs a side effect before a not-found result is
// returned, e.g. kicking off on-demand matching.
type NotFoundHook func(ctx context.Context)

// Router decides what a requester currently sees for their latest
// match. It never surfaces errors: anything unresolvable degrades to
// the waiting state.
type Router struct {
	calendar *Calendar
	log      *zap.SugaredLogger
}

func NewRouter(calendar *Calendar, log *zap.SugaredLogger) *Router {
	return &Router{calendar: calendar, log: log}
}

// Route maps the requester's most recent match row (nil when none
// exists) to a view state.
func (r *Router) Route(ctx context.Context, latest *Match, resolve PartnerResolver, onNotFound NotFoundHook) *MatchDetails {
	now := r.calendar.Now()

	if latest == nil {
		if _, _, err := r.calendar.CheckedDates(now); errors.Is(err, ErrBeforePublishDay) {
			return &MatchDetails{State: StateWaiting}
		}
		if onNotFound != nil {
			onNotFound(ctx)
		}
		return &MatchDetails{State: StateNotFound}
	}

	endOfView := r.calendar.RematchExpiredAt(latest.PublishedAt)

	rematchEligible := now.Before(endOfView) &&
		(latest.Type == MatchTypeRematching || latest.Type == MatchTypeAdmin)
	if rematchEligible {
		return r.resolved(ctx, latest, StateRematching, endOfView, resolve)
	}

	if now.After(endOfView) {
		return &MatchDetails{State: StateWaiting}
	}
	return r.resolved(ctx, latest, StateOpen, endOfView, resolve)
}

// resolved builds an open or rematching result with the partner card
// attached. A failed lookup degrades to waiting.
func (r *Router) resolved(ctx context.Context, m *Match, state ViewState, endOfView time.Time, resolve PartnerResolver) *MatchDetails {
	partner, err := resolve(ctx, m.MatcherID)
	if err != nil {
		r.log.Warnw("failed to resolve match partner",
			"match_id", m.ID,
			"matcher_id", m.MatcherID,
			"error", err,
		)
		return &MatchDetails{State: StateWaiting}
	}
	return &MatchDetails{
		State:     state,
		ID:        m.ID,
		EndOfView: &endOfView,
		Partner:   partner,
		Type:      m.Type,
	}
}
