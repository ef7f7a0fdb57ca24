package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbox/pkg/models"
)

// DailyStatRepository handles database operations for per-day activity rows
type DailyStatRepository struct{}

// NewDailyStatRepository creates a new repository instance
func NewDailyStatRepository() *DailyStatRepository {
	return &DailyStatRepository{}
}

// Append merges a delta into the row for (scope, date), inserting the
// row when absent. Repeated appends accumulate.
func (r *DailyStatRepository) Append(ctx context.Context, scopeID int64, date string, delta models.DailyDelta) error {
	return r.append(ctx, DB, scopeID, date, delta)
}

func (r *DailyStatRepository) append(ctx context.Context, ext sqlx.ExtContext, scopeID int64, date string, delta models.DailyDelta) error {
	// Upsert-with-addition; supported by sqlite >= 3.24 and postgres.
	query := ext.Rebind(`
		INSERT INTO daily_stats (scope_id, date, words_reviewed, words_correct, xp_earned)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (scope_id, date) DO UPDATE SET
			words_reviewed = daily_stats.words_reviewed + excluded.words_reviewed,
			words_correct = daily_stats.words_correct + excluded.words_correct,
			xp_earned = daily_stats.xp_earned + excluded.xp_earned
	`)
	_, err := ext.ExecContext(ctx, query, scopeID, date,
		delta.WordsReviewed, delta.WordsCorrect, delta.XPEarned)
	if err != nil {
		return fmt.Errorf("failed to append daily stat: %v", err)
	}
	return nil
}

// ListRange returns rows for the scope within [from, to], oldest first.
func (r *DailyStatRepository) ListRange(ctx context.Context, scopeID int64, from, to string) ([]models.DailyStat, error) {
	var rows []models.DailyStat
	query := DB.Rebind(`
		SELECT * FROM daily_stats
		WHERE scope_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`)
	err := DB.SelectContext(ctx, &rows, query, scopeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %v", err)
	}
	return rows, nil
}
