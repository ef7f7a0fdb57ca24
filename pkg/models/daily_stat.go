package models

// DailyStat is one row per scope and calendar date. Writes for the same
// date accumulate into the existing row rather than overwrite it, so the
// weekly activity chart and streak history can be rebuilt without
// replaying per-item history.
type DailyStat struct {
	ID            int64  `json:"id" db:"id"`
	ScopeID       int64  `json:"scope_id" db:"scope_id"`
	Date          string `json:"date" db:"date"` // YYYY-MM-DD, UTC
	WordsReviewed int    `json:"words_reviewed" db:"words_reviewed"`
	WordsCorrect  int    `json:"words_correct" db:"words_correct"`
	XPEarned      int    `json:"xp_earned" db:"xp_earned"`
}

// DailyDelta is the per-review increment merged into a DailyStat row.
type DailyDelta struct {
	WordsReviewed int
	WordsCorrect  int
	XPEarned      int
}
