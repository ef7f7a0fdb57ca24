package models

import "time"

// Item represents a single vocabulary card owned by one learning scope.
// Scheduling follows the Leitner system: the card sits in one of five
// boxes and becomes due once NextReviewAt has passed.
type Item struct {
	ID             int64      `json:"id" db:"id"`
	ScopeID        int64      `json:"scope_id" db:"scope_id"`
	SourceText     string     `json:"source_text" db:"source_text"`
	TargetText     string     `json:"target_text" db:"target_text"`
	Examples       string     `json:"examples" db:"examples"` // newline-separated example sentences
	Category       string     `json:"category" db:"category"`
	Mnemonic       string     `json:"mnemonic" db:"mnemonic"`
	Box            int        `json:"box" db:"box"` // 1..5
	NextReviewAt   time.Time  `json:"next_review_at" db:"next_review_at"`
	TimesReviewed  int        `json:"times_reviewed" db:"times_reviewed"`
	TimesCorrect   int        `json:"times_correct" db:"times_correct"`
	TimesIncorrect int        `json:"times_incorrect" db:"times_incorrect"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
}

// ItemFields carries the user-supplied part of an item for inserts and
// bulk imports. Scheduling state is filled in by the service.
type ItemFields struct {
	SourceText string `json:"source_text"`
	TargetText string `json:"target_text"`
	Examples   string `json:"examples"`
	Category   string `json:"category"`
	Mnemonic   string `json:"mnemonic"`
}
