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

// ItemRepository handles database operations for vocabulary items
type ItemRepository struct{}

// NewItemRepository creates a new repository instance
func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

// Get returns an item by ID, checking scope ownership.
func (r *ItemRepository) Get(ctx context.Context, scopeID, itemID int64) (*models.Item, error) {
	var item models.Item
	query := DB.Rebind("SELECT * FROM items WHERE id = ? AND scope_id = ?")
	err := DB.GetContext(ctx, &item, query, itemID, scopeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, review.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %v", err)
	}
	return &item, nil
}

// ListByScope returns all items in a scope.
func (r *ItemRepository) ListByScope(ctx context.Context, scopeID int64) ([]models.Item, error) {
	var items []models.Item
	query := DB.Rebind("SELECT * FROM items WHERE scope_id = ? ORDER BY next_review_at ASC")
	err := DB.SelectContext(ctx, &items, query, scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %v", err)
	}
	return items, nil
}

// Create inserts a new item. Duplicate source text within the scope is
// rejected with review.ErrDuplicate.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	var existing int
	query := DB.Rebind("SELECT COUNT(*) FROM items WHERE scope_id = ? AND source_text = ?")
	if err := DB.GetContext(ctx, &existing, query, item.ScopeID, item.SourceText); err != nil {
		return fmt.Errorf("failed to check for duplicates: %v", err)
	}
	if existing > 0 {
		return review.ErrDuplicate
	}

	query = DB.Rebind(`
		INSERT INTO items (
			scope_id, source_text, target_text, examples, category, mnemonic,
			box, next_review_at, times_reviewed, times_correct, times_incorrect,
			created_at, last_reviewed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	if DB.DriverName() == "postgres" {
		query += " RETURNING id"
		return DB.QueryRowContext(ctx, query,
			item.ScopeID, item.SourceText, item.TargetText, item.Examples,
			item.Category, item.Mnemonic, item.Box, item.NextReviewAt,
			item.TimesReviewed, item.TimesCorrect, item.TimesIncorrect,
			item.CreatedAt, item.LastReviewedAt,
		).Scan(&item.ID)
	}

	result, err := DB.ExecContext(ctx, query,
		item.ScopeID, item.SourceText, item.TargetText, item.Examples,
		item.Category, item.Mnemonic, item.Box, item.NextReviewAt,
		item.TimesReviewed, item.TimesCorrect, item.TimesIncorrect,
		item.CreatedAt, item.LastReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	item.ID = id
	return nil
}

// Update overwrites an existing item.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.update(ctx, DB, item)
}

// update carries the shared SQL so the transactional review path can run
// it against a tx.
func (r *ItemRepository) update(ctx context.Context, ext sqlx.ExtContext, item *models.Item) error {
	query := ext.Rebind(`
		UPDATE items SET
			source_text = ?,
			target_text = ?,
			examples = ?,
			category = ?,
			mnemonic = ?,
			box = ?,
			next_review_at = ?,
			times_reviewed = ?,
			times_correct = ?,
			times_incorrect = ?,
			last_reviewed_at = ?
		WHERE id = ? AND scope_id = ?
	`)
	result, err := ext.ExecContext(ctx, query,
		item.SourceText, item.TargetText, item.Examples, item.Category,
		item.Mnemonic, item.Box, item.NextReviewAt, item.TimesReviewed,
		item.TimesCorrect, item.TimesIncorrect, item.LastReviewedAt,
		item.ID, item.ScopeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %v", err)
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

// Delete removes an item, checking scope ownership.
func (r *ItemRepository) Delete(ctx context.Context, scopeID, itemID int64) error {
	query := DB.Rebind("DELETE FROM items WHERE id = ? AND scope_id = ?")
	result, err := DB.ExecContext(ctx, query, itemID, scopeID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %v", err)
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
