package review

import (
	"context"

	"github.com/example/wordbox/pkg/models"
)

// Store is the record-store contract the service is parameterized over.
// The scheduling rules live entirely outside the store, so an in-memory
// backend and the sqlx backend share one set of business rules.
type Store interface {
	// GetItem returns the item, or ErrNotFound when it does not exist or
	// belongs to a different scope.
	GetItem(ctx context.Context, scopeID, itemID int64) (*models.Item, error)

	// ListItems returns every item in the scope.
	ListItems(ctx context.Context, scopeID int64) ([]models.Item, error)

	// InsertItem stores a new item. ErrDuplicate when the scope already
	// holds an item with the same source text (case-sensitive).
	InsertItem(ctx context.Context, item *models.Item) error

	// UpdateItem overwrites a stored item, matched by ID.
	UpdateItem(ctx context.Context, item *models.Item) error

	// DeleteItem removes an item. ErrNotFound when it is absent or owned
	// by a different scope.
	DeleteItem(ctx context.Context, scopeID, itemID int64) error

	// GetStats returns the scope's stats row, or nil without error when
	// the scope has never been touched.
	GetStats(ctx context.Context, scopeID int64) (*models.UserStats, error)

	// UpsertStats writes the stats row. The write is conditional on
	// stats.Version matching the stored row; on success the stored and
	// in-memory version are incremented. A stale version yields
	// ErrConflict.
	UpsertStats(ctx context.Context, stats *models.UserStats) error

	// AppendDailyStat merges the delta into the row for (scope, date),
	// inserting it when absent. Accumulate, never overwrite.
	AppendDailyStat(ctx context.Context, scopeID int64, date string, delta models.DailyDelta) error

	// ListDailyStats returns rows for the scope within [from, to],
	// ordered by date ascending. Missing days have no row.
	ListDailyStats(ctx context.Context, scopeID int64, from, to string) ([]models.DailyStat, error)

	// ApplyReview persists one review outcome as a single atomic unit:
	// the advanced item, the version-checked stats row, today's daily
	// delta and the submission's idempotency key. A replayed submission
	// ID yields ErrAlreadyApplied with nothing written; a stale stats
	// version yields ErrConflict with nothing written.
	ApplyReview(ctx context.Context, rec ReviewRecord) error
}

// ReviewRecord is the unit of work handed to Store.ApplyReview.
type ReviewRecord struct {
	SubmissionID string // client-generated idempotency key
	Item         *models.Item
	Stats        *models.UserStats
	Date         string // YYYY-MM-DD the review counts toward
	Delta        models.DailyDelta
}
