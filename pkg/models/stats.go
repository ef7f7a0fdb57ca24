package models

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
	"time"
)

// AchievementSet is the set of unlocked achievement IDs, stored as a
// comma-joined TEXT column. Unlocks are monotonic: IDs are added and
// never removed.
type AchievementSet map[string]bool

// Has reports whether the achievement has been unlocked.
func (s AchievementSet) Has(id string) bool { return s[id] }

// Add unlocks an achievement. Adding an already-unlocked ID is a no-op.
func (s AchievementSet) Add(id string) { s[id] = true }

// IDs returns the unlocked IDs in stable order.
func (s AchievementSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the set.
func (s AchievementSet) Clone() AchievementSet {
	out := make(AchievementSet, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// Value implements driver.Valuer.
func (s AchievementSet) Value() (driver.Value, error) {
	return strings.Join(s.IDs(), ","), nil
}

// Scan implements sql.Scanner.
func (s *AchievementSet) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = AchievementSet{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into AchievementSet", src)
	}
	set := AchievementSet{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	*s = set
	return nil
}

// UserStats holds per-scope aggregate counters. Level is always derived
// from XP on write and never trusted from storage. Version guards the
// read-modify-write cycle: a write with a stale version is rejected.
type UserStats struct {
	ID             int64          `json:"id" db:"id"`
	ScopeID        int64          `json:"scope_id" db:"scope_id"`
	TotalWords     int            `json:"total_words" db:"total_words"`
	LearnedWords   int            `json:"learned_words" db:"learned_words"` // running correct-answer counter
	TotalReviews   int            `json:"total_reviews" db:"total_reviews"`
	Streak         int            `json:"streak" db:"streak"`
	TodayReviewed  int            `json:"today_reviewed" db:"today_reviewed"`
	TodayCorrect   int            `json:"today_correct" db:"today_correct"`
	LastActiveDate string         `json:"last_active_date" db:"last_active_date"` // YYYY-MM-DD, UTC
	XP             int            `json:"xp" db:"xp"`
	Level          int            `json:"level" db:"level"`
	DailyGoal      int            `json:"daily_goal" db:"daily_goal"`
	Achievements   AchievementSet `json:"achievements" db:"achievements"`
	Version        int64          `json:"version" db:"version"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy so callers can mutate freely before a
// version-checked write.
func (s *UserStats) Clone() *UserStats {
	out := *s
	out.Achievements = s.Achievements.Clone()
	return &out
}
