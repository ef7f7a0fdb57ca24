package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbox/internal/review"
	"github.com/example/wordbox/pkg/models"
)

// StatsRepository handles database operations for per-scope user stats
type StatsRepository struct{}

// NewStatsRepository creates a new repository instance
func NewStatsRepository() *StatsRepository {
	return &StatsRepository{}
}

// GetByScope returns the stats row for a scope, or nil when the scope
// has never been touched.
func (r *StatsRepository) GetByScope(ctx context.Context, scopeID int64) (*models.UserStats, error) {
	var stats models.UserStats
	query := DB.Rebind("SELECT * FROM user_stats WHERE scope_id = ?")
	err := DB.GetContext(ctx, &stats, query, scopeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %v", err)
	}
	return &stats, nil
}

// Upsert writes the stats row with an optimistic version check. A stale
// version yields review.ErrConflict and nothing is written.
func (r *StatsRepository) Upsert(ctx context.Context, stats *models.UserStats) error {
	return r.upsert(ctx, DB, stats)
}

func (r *StatsRepository) upsert(ctx context.Context, ext sqlx.ExtContext, stats *models.UserStats) error {
	query := ext.Rebind(`
		UPDATE user_stats SET
			total_words = ?,
			learned_words = ?,
			total_reviews = ?,
			streak = ?,
			today_reviewed = ?,
			today_correct = ?,
			last_active_date = ?,
			xp = ?,
			level = ?,
			daily_goal = ?,
			achievements = ?,
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE scope_id = ? AND version = ?
	`)
	result, err := ext.ExecContext(ctx, query,
		stats.TotalWords, stats.LearnedWords, stats.TotalReviews,
		stats.Streak, stats.TodayReviewed, stats.TodayCorrect,
		stats.LastActiveDate, stats.XP, stats.Level, stats.DailyGoal,
		stats.Achievements, stats.ScopeID, stats.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 1 {
		stats.Version++
		return nil
	}

	// No row updated: either the scope has no stats yet, or the version
	// is stale.
	var existing int
	countQuery := ext.Rebind("SELECT COUNT(*) FROM user_stats WHERE scope_id = ?")
	if err := sqlx.GetContext(ctx, ext, &existing, countQuery, stats.ScopeID); err != nil {
		return fmt.Errorf("failed to check stats row: %v", err)
	}
	if existing > 0 {
		return review.ErrConflict
	}
	return r.insert(ctx, ext, stats)
}

func (r *StatsRepository) insert(ctx context.Context, ext sqlx.ExtContext, stats *models.UserStats) error {
	query := ext.Rebind(`
		INSERT INTO user_stats (
			scope_id, total_words, learned_words, total_reviews, streak,
			today_reviewed, today_correct, last_active_date, xp, level,
			daily_goal, achievements, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`)

	if ext.DriverName() == "postgres" {
		query += " RETURNING id"
		err := ext.QueryRowxContext(ctx, query,
			stats.ScopeID, stats.TotalWords, stats.LearnedWords,
			stats.TotalReviews, stats.Streak, stats.TodayReviewed,
			stats.TodayCorrect, stats.LastActiveDate, stats.XP, stats.Level,
			stats.DailyGoal, stats.Achievements,
		).Scan(&stats.ID)
		if err != nil {
			return fmt.Errorf("failed to create stats: %v", err)
		}
		stats.Version = 1
		return nil
	}

	result, err := ext.ExecContext(ctx, query,
		stats.ScopeID, stats.TotalWords, stats.LearnedWords,
		stats.TotalReviews, stats.Streak, stats.TodayReviewed,
		stats.TodayCorrect, stats.LastActiveDate, stats.XP, stats.Level,
		stats.DailyGoal, stats.Achievements,
	)
	if err != nil {
		return fmt.Errorf("failed to create stats: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	stats.ID = id
	stats.Version = 1
	return nil
}
