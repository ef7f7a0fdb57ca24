package database

import (
	"context"
	"fmt"

	"github.com/example/wordbox/internal/review"
	"github.com/example/wordbox/pkg/models"
)

// Store wires the repositories into the review.Store contract so the
// scheduling core runs against this database the same way it runs
// against the in-memory store.
type Store struct {
	items *ItemRepository
	stats *StatsRepository
	daily *DailyStatRepository
}

// NewStore creates a store over the global connection.
func NewStore() *Store {
	return &Store{
		items: NewItemRepository(),
		stats: NewStatsRepository(),
		daily: NewDailyStatRepository(),
	}
}

var _ review.Store = (*Store)(nil)

func (s *Store) GetItem(ctx context.Context, scopeID, itemID int64) (*models.Item, error) {
	return s.items.Get(ctx, scopeID, itemID)
}

func (s *Store) ListItems(ctx context.Context, scopeID int64) ([]models.Item, error) {
	return s.items.ListByScope(ctx, scopeID)
}

func (s *Store) InsertItem(ctx context.Context, item *models.Item) error {
	return s.items.Create(ctx, item)
}

func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	return s.items.Update(ctx, item)
}

func (s *Store) DeleteItem(ctx context.Context, scopeID, itemID int64) error {
	return s.items.Delete(ctx, scopeID, itemID)
}

func (s *Store) GetStats(ctx context.Context, scopeID int64) (*models.UserStats, error) {
	return s.stats.GetByScope(ctx, scopeID)
}

func (s *Store) UpsertStats(ctx context.Context, stats *models.UserStats) error {
	return s.stats.Upsert(ctx, stats)
}

func (s *Store) AppendDailyStat(ctx context.Context, scopeID int64, date string, delta models.DailyDelta) error {
	return s.daily.Append(ctx, scopeID, date, delta)
}

func (s *Store) ListDailyStats(ctx context.Context, scopeID int64, from, to string) ([]models.DailyStat, error) {
	return s.daily.ListRange(ctx, scopeID, from, to)
}

// ApplyReview persists one review outcome inside a single transaction:
// the idempotency-log insert, the version-checked stats write, the item
// update and the daily delta. Rolls back as a whole on any failure, so a
// review is never half-applied.
func (s *Store) ApplyReview(ctx context.Context, rec review.ReviewRecord) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Replay guard first: a duplicate submission must not touch anything.
	var seen int
	countQuery := tx.Rebind("SELECT COUNT(*) FROM review_log WHERE id = ?")
	if err := tx.GetContext(ctx, &seen, countQuery, rec.SubmissionID); err != nil {
		return fmt.Errorf("failed to check review log: %v", err)
	}
	if seen > 0 {
		return review.ErrAlreadyApplied
	}

	logQuery := tx.Rebind("INSERT INTO review_log (id, scope_id, item_id, correct) VALUES (?, ?, ?, ?)")
	correct := rec.Delta.WordsCorrect > 0
	if _, err := tx.ExecContext(ctx, logQuery, rec.SubmissionID, rec.Stats.ScopeID, rec.Item.ID, correct); err != nil {
		return fmt.Errorf("failed to log review: %v", err)
	}

	if err := s.stats.upsert(ctx, tx, rec.Stats); err != nil {
		return err
	}
	if err := s.items.update(ctx, tx, rec.Item); err != nil {
		return err
	}
	if err := s.daily.append(ctx, tx, rec.Stats.ScopeID, rec.Date, rec.Delta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %v", err)
	}
	committed = true
	return nil
}
