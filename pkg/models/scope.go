package models

import "time"

// Scope is a user's chosen source→target language pair. Items and stats
// are isolated per scope; a user may hold several scopes but only one is
// active at a time.
type Scope struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"` // Telegram chat ID
	SourceLang string    `json:"source_lang" db:"source_lang"`
	TargetLang string    `json:"target_lang" db:"target_lang"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
