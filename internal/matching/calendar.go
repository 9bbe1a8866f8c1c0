package matching

import (
	"errors"
	"fmt"
	"time"
)

// Publish cycle: Thursday and Sunday at 21:00 in the configured
// location. Rematch deadlines snap to the 20:00 adjustment anchors so
// windows stay aligned to the cadence instead of drifting with exact
// creation timestamps.

const (
	publishHour = 21
	adjustHour  = 20

	// DefaultViewWindow is the fallback match lifetime when a publish
	// time falls outside both adjustment windows.
	DefaultViewWindow = 48 * time.Hour
)

// ErrBeforePublishDay is returned by CheckedDates when the current
// cycle has not opened yet, i.e. now precedes this week's Thursday
// publish moment.
var ErrBeforePublishDay = errors.New("current week's publish cycle has not started")

// Clock supplies the current time. Production uses SystemClock; tests
// inject fixed times.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// WeekDates are the anchors of a Monday-start week.
type WeekDates struct {
	Start    time.Time // Monday 00:00
	End      time.Time // next Monday 00:00
	Thursday time.Time // Thursday 00:00
	Sunday   time.Time // Sunday 00:00
}

// Calendar computes publish and window times for one location.
type Calendar struct {
	loc   *time.Location
	clock Clock
}

func NewCalendar(timezone string, clock Clock) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calendar{loc: loc, clock: clock}, nil
}

// Now is the clock's current time in the calendar's location.
func (c *Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

// WeekOf returns the Monday-start week containing t.
func (c *Calendar) WeekOf(t time.Time) WeekDates {
	t = t.In(c.loc)
	monday := midnight(t).AddDate(0, 0, -mondayOffset(t.Weekday()))
	return WeekDates{
		Start:    monday,
		End:      monday.AddDate(0, 0, 7),
		Thursday: monday.AddDate(0, 0, 3),
		Sunday:   monday.AddDate(0, 0, 6),
	}
}

// IsPublishDay reports whether t falls on a publish weekday.
func (c *Calendar) IsPublishDay(t time.Time) bool {
	wd := t.In(c.loc).Weekday()
	return wd == time.Thursday || wd == time.Sunday
}

// NextMatchingDate is the first publish moment strictly after now.
func (c *Calendar) NextMatchingDate(now time.Time) time.Time {
	now = now.In(c.loc)
	week := c.WeekOf(now)
	for _, candidate := range []time.Time{
		at(week.Thursday, publishHour),
		at(week.Sunday, publishHour),
		at(week.Thursday.AddDate(0, 0, 7), publishHour),
	} {
		if candidate.After(now) {
			return candidate
		}
	}
	// Unreachable: next week's Thursday is always after any time in
	// the current week.
	return at(week.Thursday.AddDate(0, 0, 7), publishHour)
}

// RematchExpiredAt is the effective view deadline for a match
// published at publishedAt. Matches created inside an adjustment
// window snap to that window's 20:00 anchor; anything else keeps the
// plain 48h lifetime.
func (c *Calendar) RematchExpiredAt(publishedAt time.Time) time.Time {
	publishedAt = publishedAt.In(c.loc)
	week := c.WeekOf(publishedAt)

	tueAnchor := at(week.Start.AddDate(0, 0, 1), adjustHour)
	thuAnchor := at(week.Thursday, adjustHour)
	friAnchor := at(week.Thursday.AddDate(0, 0, 1), adjustHour)
	sunAnchor := at(week.Sunday, adjustHour)

	switch {
	case !publishedAt.Before(tueAnchor) && publishedAt.Before(thuAnchor):
		return thuAnchor
	case !publishedAt.Before(friAnchor) && publishedAt.Before(sunAnchor):
		return sunAnchor
	default:
		return publishedAt.Add(DefaultViewWindow)
	}
}

// CheckedDates returns the bounds of the publish cycle open at now:
// the most recent publish moment and the next one. Calling it before
// this week's Thursday publish is a caller error and returns
// ErrBeforePublishDay.
func (c *Calendar) CheckedDates(now time.Time) (start, end time.Time, err error) {
	now = now.In(c.loc)
	week := c.WeekOf(now)

	thuPublish := at(week.Thursday, publishHour)
	sunPublish := at(week.Sunday, publishHour)

	switch {
	case now.Before(thuPublish):
		return time.Time{}, time.Time{}, ErrBeforePublishDay
	case now.Before(sunPublish):
		return thuPublish, sunPublish, nil
	default:
		return sunPublish, at(week.Thursday.AddDate(0, 0, 7), publishHour), nil
	}
}

// mondayOffset is the number of days since the week's Monday.
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func at(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
