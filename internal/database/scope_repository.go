package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/wordbox/internal/review"
	"github.com/example/wordbox/pkg/models"
)

// ScopeRepository handles database operations for learning scopes
type ScopeRepository struct{}

// NewScopeRepository creates a new repository instance
func NewScopeRepository() *ScopeRepository {
	return &ScopeRepository{}
}

// GetOrCreate returns the scope for (user, source, target), creating and
// activating it on first use. Creating a scope deactivates the user's
// other scopes: exactly one scope is active per user.
func (r *ScopeRepository) GetOrCreate(ctx context.Context, userID int64, sourceLang, targetLang string) (*models.Scope, error) {
	var scope models.Scope
	query := DB.Rebind("SELECT * FROM scopes WHERE user_id = ? AND source_lang = ? AND target_lang = ?")
	err := DB.GetContext(ctx, &scope, query, userID, sourceLang, targetLang)
	if err == nil {
		return &scope, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get scope: %v", err)
	}

	if err := r.deactivateAll(ctx, userID); err != nil {
		return nil, err
	}

	insert := DB.Rebind("INSERT INTO scopes (user_id, source_lang, target_lang, active) VALUES (?, ?, ?, true)")
	if DB.DriverName() == "postgres" {
		insert += " RETURNING id"
		if err := DB.QueryRowContext(ctx, insert, userID, sourceLang, targetLang).Scan(&scope.ID); err != nil {
			return nil, fmt.Errorf("failed to create scope: %v", err)
		}
	} else {
		result, err := DB.ExecContext(ctx, insert, userID, sourceLang, targetLang)
		if err != nil {
			return nil, fmt.Errorf("failed to create scope: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get last insert ID: %v", err)
		}
		scope.ID = id
	}

	scope.UserID = userID
	scope.SourceLang = sourceLang
	scope.TargetLang = targetLang
	scope.Active = true
	return &scope, nil
}

// ActiveForUser returns the user's active scope, or review.ErrNotFound
// when the user has none yet.
func (r *ScopeRepository) ActiveForUser(ctx context.Context, userID int64) (*models.Scope, error) {
	var scope models.Scope
	query := DB.Rebind("SELECT * FROM scopes WHERE user_id = ? AND active = true")
	err := DB.GetContext(ctx, &scope, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, review.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active scope: %v", err)
	}
	return &scope, nil
}

// ListForUser returns all of the user's scopes.
func (r *ScopeRepository) ListForUser(ctx context.Context, userID int64) ([]models.Scope, error) {
	var scopes []models.Scope
	query := DB.Rebind("SELECT * FROM scopes WHERE user_id = ? ORDER BY created_at ASC")
	err := DB.SelectContext(ctx, &scopes, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %v", err)
	}
	return scopes, nil
}

// SetActive switches the user's active scope.
func (r *ScopeRepository) SetActive(ctx context.Context, userID, scopeID int64) error {
	if err := r.deactivateAll(ctx, userID); err != nil {
		return err
	}
	query := DB.Rebind("UPDATE scopes SET active = true WHERE id = ? AND user_id = ?")
	result, err := DB.ExecContext(ctx, query, scopeID, userID)
	if err != nil {
		return fmt.Errorf("failed to activate scope: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return review.ErrNotFound
	}
	return nil
}

// ListAllActive returns every active scope across users, for the
// reminder scheduler.
func (r *ScopeRepository) ListAllActive(ctx context.Context) ([]models.Scope, error) {
	var scopes []models.Scope
	err := DB.SelectContext(ctx, &scopes, "SELECT * FROM scopes WHERE active = true")
	if err != nil {
		return nil, fmt.Errorf("failed to list active scopes: %v", err)
	}
	return scopes, nil
}

func (r *ScopeRepository) deactivateAll(ctx context.Context, userID int64) error {
	query := DB.Rebind("UPDATE scopes SET active = false WHERE user_id = ?")
	if _, err := DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to deactivate scopes: %v", err)
	}
	return nil
}
