package leitner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/wordbox/pkg/models"
)

func TestRollover(t *testing.T) {
	tests := []struct {
		name          string
		stats         models.UserStats
		today         string
		wantStreak    int
		wantReviewed  int
		wantCorrect   int
		wantActiveDay string
	}{
		{
			name:          "same day is untouched",
			stats:         models.UserStats{LastActiveDate: "2026-03-10", Streak: 3, TodayReviewed: 5, TodayCorrect: 4},
			today:         "2026-03-10",
			wantStreak:    3,
			wantReviewed:  5,
			wantCorrect:   4,
			wantActiveDay: "2026-03-10",
		},
		{
			name:          "active yesterday extends streak",
			stats:         models.UserStats{LastActiveDate: "2026-03-09", Streak: 3, TodayReviewed: 5, TodayCorrect: 4},
			today:         "2026-03-10",
			wantStreak:    4,
			wantReviewed:  0,
			wantCorrect:   0,
			wantActiveDay: "2026-03-10",
		},
		{
			name:          "idle yesterday resets streak",
			stats:         models.UserStats{LastActiveDate: "2026-03-09", Streak: 3, TodayReviewed: 0},
			today:         "2026-03-10",
			wantStreak:    0,
			wantReviewed:  0,
			wantCorrect:   0,
			wantActiveDay: "2026-03-10",
		},
		{
			name:          "multi-day gap resets streak once",
			stats:         models.UserStats{LastActiveDate: "2026-03-07", Streak: 9, TodayReviewed: 12, TodayCorrect: 10},
			today:         "2026-03-10",
			wantStreak:    0,
			wantReviewed:  0,
			wantCorrect:   0,
			wantActiveDay: "2026-03-10",
		},
		{
			name:          "fresh stats get today stamped",
			stats:         models.UserStats{},
			today:         "2026-03-10",
			wantStreak:    0,
			wantReviewed:  0,
			wantCorrect:   0,
			wantActiveDay: "2026-03-10",
		},
		{
			name:          "month boundary still counts as yesterday",
			stats:         models.UserStats{LastActiveDate: "2026-02-28", Streak: 1, TodayReviewed: 2},
			today:         "2026-03-01",
			wantStreak:    2,
			wantReviewed:  0,
			wantCorrect:   0,
			wantActiveDay: "2026-03-01",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rollover(tt.stats, tt.today)
			assert.Equal(t, tt.wantStreak, got.Streak)
			assert.Equal(t, tt.wantReviewed, got.TodayReviewed)
			assert.Equal(t, tt.wantCorrect, got.TodayCorrect)
			assert.Equal(t, tt.wantActiveDay, got.LastActiveDate)
		})
	}
}

func TestRolloverIsIdempotentWithinADay(t *testing.T) {
	stats := models.UserStats{LastActiveDate: "2026-03-09", Streak: 3, TodayReviewed: 5}
	once := Rollover(stats, "2026-03-10")
	twice := Rollover(once, "2026-03-10")
	assert.Equal(t, once, twice)
}

func TestToday(t *testing.T) {
	// The calendar day comes from UTC, regardless of the clock's zone.
	loc := time.FixedZone("UTC+5", 5*3600)
	at := time.Date(2026, 3, 11, 2, 30, 0, 0, loc) // still 2026-03-10 in UTC
	assert.Equal(t, "2026-03-10", Today(at))
}
