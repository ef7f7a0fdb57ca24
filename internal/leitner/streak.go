package leitner

import (
	"time"

	"github.com/example/wordbox/pkg/models"
)

// DateLayout is the calendar-date format used for streak bookkeeping.
// All date math is done in UTC; the streak is about calendar days, not
// elapsed hours.
const DateLayout = "2006-01-02"

// Today formats a timestamp as a UTC calendar date.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// yesterday returns the calendar date one day before the given date.
// Unparseable input yields an empty string, which never matches.
func yesterday(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// Rollover reconciles the daily counters and the streak when a new
// calendar day is observed. It is invoked on every stats read rather
// than by a timer, so a user returning after a five-day gap sees the
// whole gap collapse into a single reset.
//
//   - Same day: nothing changes.
//   - Last active yesterday with at least one review: streak grows.
//   - Anything else (gap, or an idle last-active day): streak resets.
//
// Every branch that changes the day also zeroes the today counters.
func Rollover(stats models.UserStats, today string) models.UserStats {
	if stats.LastActiveDate == today {
		return stats
	}
	if stats.LastActiveDate == yesterday(today) && stats.TodayReviewed > 0 {
		stats.Streak++
	} else {
		stats.Streak = 0
	}
	stats.TodayReviewed = 0
	stats.TodayCorrect = 0
	stats.LastActiveDate = today
	return stats
}
