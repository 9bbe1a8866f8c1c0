package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func newTestCalendar(t *testing.T, now time.Time) *Calendar {
	t.Helper()
	cal, err := NewCalendar("Asia/Seoul", fakeClock{now: now})
	require.NoError(t, err)
	return cal
}

// Week of Monday 2025-06-02: Thursday is the 5th, Sunday the 8th.
func testWeekDay(loc *time.Location, day, hour, minute int) time.Time {
	return time.Date(2025, time.June, day, hour, minute, 0, 0, loc)
}

func TestWeekOfAnchors(t *testing.T) {
	loc := seoul(t)
	cal := newTestCalendar(t, time.Time{})

	for _, day := range []int{2, 4, 8} { // Monday, Wednesday, Sunday
		week := cal.WeekOf(testWeekDay(loc, day, 13, 30))
		assert.Equal(t, testWeekDay(loc, 2, 0, 0), week.Start)
		assert.Equal(t, testWeekDay(loc, 9, 0, 0), week.End)
		assert.Equal(t, testWeekDay(loc, 5, 0, 0), week.Thursday)
		assert.Equal(t, testWeekDay(loc, 8, 0, 0), week.Sunday)
	}
}

func TestIsPublishDay(t *testing.T) {
	loc := seoul(t)
	cal := newTestCalendar(t, time.Time{})

	assert.True(t, cal.IsPublishDay(testWeekDay(loc, 5, 10, 0)))  // Thursday
	assert.True(t, cal.IsPublishDay(testWeekDay(loc, 8, 10, 0)))  // Sunday
	assert.False(t, cal.IsPublishDay(testWeekDay(loc, 4, 10, 0))) // Wednesday
}

func TestNextMatchingDate(t *testing.T) {
	loc := seoul(t)
	cal := newTestCalendar(t, time.Time{})

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"wednesday", testWeekDay(loc, 4, 12, 0), testWeekDay(loc, 5, 21, 0)},
		{"thursday before publish", testWeekDay(loc, 5, 20, 59), testWeekDay(loc, 5, 21, 0)},
		{"thursday after publish", testWeekDay(loc, 5, 21, 30), testWeekDay(loc, 8, 21, 0)},
		{"sunday after publish", testWeekDay(loc, 8, 22, 0), testWeekDay(loc, 12, 21, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.NextMatchingDate(tt.now))
		})
	}
}

func TestRematchExpiredAt(t *testing.T) {
	loc := seoul(t)
	cal := newTestCalendar(t, time.Time{})

	tests := []struct {
		name        string
		publishedAt time.Time
		want        time.Time
	}{
		// Inside the Tue 20:00 - Thu 20:00 window the deadline snaps
		// to Thursday's 20:00 anchor.
		{"wednesday evening publish", testWeekDay(loc, 4, 21, 0), testWeekDay(loc, 5, 20, 0)},
		{"tuesday window start", testWeekDay(loc, 3, 20, 0), testWeekDay(loc, 5, 20, 0)},
		// Inside Fri 20:00 - Sun 20:00 it snaps to Sunday.
		{"saturday publish", testWeekDay(loc, 7, 12, 0), testWeekDay(loc, 8, 20, 0)},
		{"friday evening publish", testWeekDay(loc, 6, 20, 0), testWeekDay(loc, 8, 20, 0)},
		// Everything else keeps the plain 48h lifetime.
		{"monday publish", testWeekDay(loc, 2, 10, 0), testWeekDay(loc, 4, 10, 0)},
		{"thursday anchor boundary", testWeekDay(loc, 5, 20, 0), testWeekDay(loc, 7, 20, 0)},
		{"sunday evening publish", testWeekDay(loc, 8, 21, 0), testWeekDay(loc, 10, 21, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.RematchExpiredAt(tt.publishedAt))
		})
	}
}

func TestCheckedDates(t *testing.T) {
	loc := seoul(t)
	cal := newTestCalendar(t, time.Time{})

	t.Run("before thursday publish", func(t *testing.T) {
		_, _, err := cal.CheckedDates(testWeekDay(loc, 4, 12, 0))
		assert.ErrorIs(t, err, ErrBeforePublishDay)
	})

	t.Run("between publishes", func(t *testing.T) {
		start, end, err := cal.CheckedDates(testWeekDay(loc, 6, 12, 0))
		require.NoError(t, err)
		assert.Equal(t, testWeekDay(loc, 5, 21, 0), start)
		assert.Equal(t, testWeekDay(loc, 8, 21, 0), end)
	})

	t.Run("after sunday publish", func(t *testing.T) {
		start, end, err := cal.CheckedDates(testWeekDay(loc, 8, 22, 0))
		require.NoError(t, err)
		assert.Equal(t, testWeekDay(loc, 8, 21, 0), start)
		assert.Equal(t, testWeekDay(loc, 12, 21, 0), end)
	})
}

func TestCalendarNowUsesClockAndLocation(t *testing.T) {
	utc := time.Date(2025, time.June, 4, 12, 0, 0, 0, time.UTC)
	cal := newTestCalendar(t, utc)

	now := cal.Now()
	assert.Equal(t, "Asia/Seoul", now.Location().String())
	assert.True(t, now.Equal(utc))
}
