package matching

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler fires the batch run at each publish moment. It sleeps
// until the next Thursday or Sunday 21:00 in the calendar's location,
// runs the batch, then rearms.
type Scheduler struct {
	creation *CreationService
	calendar *Calendar
	log      *zap.SugaredLogger
}

func NewScheduler(creation *CreationService, calendar *Calendar, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{creation: creation, calendar: calendar, log: log}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		now := s.calendar.Now()
		next := s.calendar.NextMatchingDate(now)
		s.log.Infow("batch matching scheduled", "next_run", next)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-timer.C:
			if err := s.creation.ProcessMatchCentral(ctx); err != nil {
				s.log.Errorw("scheduled batch run failed", "error", err)
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}
