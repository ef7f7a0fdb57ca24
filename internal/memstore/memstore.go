// Package memstore is an in-memory implementation of the review.Store
// contract. It backs the test suite and doubles as the reference for
// what the SQL store must guarantee: per-scope ownership checks,
// duplicate detection on source text, version-checked stats writes and
// atomic review application.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/example/wordbox/internal/review"
	"github.com/example/wordbox/pkg/models"
)

// Store keeps everything under one mutex; review application is atomic
// by construction.
type Store struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]models.Item
	stats   map[int64]models.UserStats // keyed by scope ID
	daily   map[int64]map[string]models.DailyStat
	applied map[string]bool // review submission IDs
}

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:  1,
		items:   make(map[int64]models.Item),
		stats:   make(map[int64]models.UserStats),
		daily:   make(map[int64]map[string]models.DailyStat),
		applied: make(map[string]bool),
	}
}

var _ review.Store = (*Store)(nil)

func (s *Store) GetItem(_ context.Context, scopeID, itemID int64) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok || it.ScopeID != scopeID {
		return nil, review.ErrNotFound
	}
	return &it, nil
}

func (s *Store) ListItems(_ context.Context, scopeID int64) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Item
	for _, it := range s.items {
		if it.ScopeID == scopeID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) InsertItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ScopeID == item.ScopeID && it.SourceText == item.SourceText {
			return review.ErrDuplicate
		}
	}
	item.ID = s.nextID
	s.nextID++
	s.items[item.ID] = *item
	return nil
}

func (s *Store) UpdateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return review.ErrNotFound
	}
	s.items[item.ID] = *item
	return nil
}

func (s *Store) DeleteItem(_ context.Context, scopeID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok || it.ScopeID != scopeID {
		return review.ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

func (s *Store) GetStats(_ context.Context, scopeID int64) (*models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[scopeID]
	if !ok {
		return nil, nil
	}
	out := st.Clone()
	return out, nil
}

func (s *Store) UpsertStats(_ context.Context, stats *models.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertStatsLocked(stats)
}

func (s *Store) upsertStatsLocked(stats *models.UserStats) error {
	if cur, ok := s.stats[stats.ScopeID]; ok {
		if cur.Version != stats.Version {
			return review.ErrConflict
		}
	} else if stats.ID == 0 {
		stats.ID = s.nextID
		s.nextID++
	}
	stats.Version++
	s.stats[stats.ScopeID] = *stats.Clone()
	return nil
}

func (s *Store) AppendDailyStat(_ context.Context, scopeID int64, date string, delta models.DailyDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendDailyLocked(scopeID, date, delta)
	return nil
}

func (s *Store) appendDailyLocked(scopeID int64, date string, delta models.DailyDelta) {
	byDate, ok := s.daily[scopeID]
	if !ok {
		byDate = make(map[string]models.DailyStat)
		s.daily[scopeID] = byDate
	}
	row, ok := byDate[date]
	if !ok {
		row = models.DailyStat{ID: s.nextID, ScopeID: scopeID, Date: date}
		s.nextID++
	}
	row.WordsReviewed += delta.WordsReviewed
	row.WordsCorrect += delta.WordsCorrect
	row.XPEarned += delta.XPEarned
	byDate[date] = row
}

func (s *Store) ListDailyStats(_ context.Context, scopeID int64, from, to string) ([]models.DailyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DailyStat
	for date, row := range s.daily[scopeID] {
		if date >= from && date <= to {
			out = append(out, row)
		}
	}
	// Date strings sort chronologically.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) ApplyReview(_ context.Context, rec review.ReviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applied[rec.SubmissionID] {
		return review.ErrAlreadyApplied
	}
	it, ok := s.items[rec.Item.ID]
	if !ok || it.ScopeID != rec.Item.ScopeID {
		return review.ErrNotFound
	}
	if err := s.upsertStatsLocked(rec.Stats); err != nil {
		return err
	}
	s.items[rec.Item.ID] = *rec.Item
	s.appendDailyLocked(rec.Stats.ScopeID, rec.Date, rec.Delta)
	s.applied[rec.SubmissionID] = true
	return nil
}
