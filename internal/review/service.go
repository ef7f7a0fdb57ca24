package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/wordbox/internal/leitner"
	"github.com/example/wordbox/pkg/models"
)

// DefaultDailyGoal is the review target a fresh scope starts with.
const DefaultDailyGoal = 20

// Service owns the scheduling rules and drives them against a Store.
// Everything time-dependent goes through the injected clock.
type Service struct {
	store Store
	clock Clock
}

// NewService creates a service. A nil clock falls back to system time.
func NewService(store Store, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{store: store, clock: clock}
}

// Submission is one answered card. ID is a client-generated idempotency
// key; when empty the service assigns one, which means a retry of a
// failed call is a fresh submission.
type Submission struct {
	ID      string
	ScopeID int64
	ItemID  int64
	Correct bool
}

// Outcome is what a processed review hands back to the UI layer.
type Outcome struct {
	Item            *models.Item
	Stats           *models.UserStats
	XPGained        int
	LeveledUp       bool
	NewAchievements []string
}

// ProcessReview applies one answered card as a single atomic unit: the
// box transition, the daily counters and streak bookkeeping, XP and
// level, the daily-stat delta and any achievement unlocks. On error
// nothing is applied and the caller may retry the whole call.
func (s *Service) ProcessReview(ctx context.Context, sub Submission) (*Outcome, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := s.clock.Now()
	today := leitner.Today(now)

	item, err := s.store.GetItem(ctx, sub.ScopeID, sub.ItemID)
	if err != nil {
		return nil, err
	}

	advanced := leitner.Advance(*item, sub.Correct, now)

	stats, err := s.loadStats(ctx, sub.ScopeID)
	if err != nil {
		return nil, err
	}
	*stats = leitner.Rollover(*stats, today)

	prevLevel := leitner.Level(stats.XP)

	stats.TotalReviews++
	stats.TodayReviewed++
	if sub.Correct {
		stats.TodayCorrect++
		stats.LearnedWords++
	}

	gained := leitner.ReviewXP(sub.Correct)
	stats.XP += gained
	stats.Level = leitner.Level(stats.XP)
	leveledUp := stats.Level > prevLevel

	unlocked := leitner.Unlock(stats)

	rec := ReviewRecord{
		SubmissionID: sub.ID,
		Item:         &advanced,
		Stats:        stats,
		Date:         today,
		Delta: models.DailyDelta{
			WordsReviewed: 1,
			WordsCorrect:  boolToInt(sub.Correct),
			XPEarned:      gained,
		},
	}
	if err := s.store.ApplyReview(ctx, rec); err != nil {
		return nil, err
	}

	return &Outcome{
		Item:            &advanced,
		Stats:           stats,
		XPGained:        gained,
		LeveledUp:       leveledUp,
		NewAchievements: unlocked,
	}, nil
}

// Item returns a single card, ownership-checked.
func (s *Service) Item(ctx context.Context, scopeID, itemID int64) (*models.Item, error) {
	return s.store.GetItem(ctx, scopeID, itemID)
}

// Items returns every card in the scope.
func (s *Service) Items(ctx context.Context, scopeID int64) ([]models.Item, error) {
	return s.store.ListItems(ctx, scopeID)
}

// DueItems returns the scope's items whose review time has passed.
func (s *Service) DueItems(ctx context.Context, scopeID int64, now time.Time) ([]models.Item, error) {
	items, err := s.store.ListItems(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	return leitner.Due(items, now), nil
}

// BoxCounts returns the scope's box histogram for the dashboard.
func (s *Service) BoxCounts(ctx context.Context, scopeID int64) (map[int]int, error) {
	items, err := s.store.ListItems(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	return leitner.CountsByBox(items), nil
}

// AddItem stores a new card in box 1, due immediately, and bumps the
// scope's word counter. ErrDuplicate when the source text already exists
// in the scope.
func (s *Service) AddItem(ctx context.Context, scopeID int64, fields models.ItemFields) (*models.Item, error) {
	if fields.SourceText == "" {
		return nil, fmt.Errorf("source text cannot be empty")
	}
	now := s.clock.Now()
	item := s.newItem(scopeID, fields, now)
	if err := s.store.InsertItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.bumpTotalWords(ctx, scopeID, 1); err != nil {
		return nil, err
	}
	return item, nil
}

// ImportOutcome reports a bulk import: what got stored and which rows
// were skipped as duplicates.
type ImportOutcome struct {
	Added      []models.Item
	Duplicates []models.ItemFields
}

// ImportItems bulk-inserts cards, silently skipping rows whose source
// text already exists in the scope or repeats within the batch.
func (s *Service) ImportItems(ctx context.Context, scopeID int64, fields []models.ItemFields) (*ImportOutcome, error) {
	existing, err := s.store.ListItems(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, it := range existing {
		seen[it.SourceText] = true
	}

	now := s.clock.Now()
	out := &ImportOutcome{}
	for _, f := range fields {
		if f.SourceText == "" || seen[f.SourceText] {
			out.Duplicates = append(out.Duplicates, f)
			continue
		}
		item := s.newItem(scopeID, f, now)
		if err := s.store.InsertItem(ctx, item); err != nil {
			return nil, err
		}
		seen[f.SourceText] = true
		out.Added = append(out.Added, *item)
	}

	if len(out.Added) > 0 {
		if err := s.bumpTotalWords(ctx, scopeID, len(out.Added)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeleteItem removes a card after checking ownership.
func (s *Service) DeleteItem(ctx context.Context, scopeID, itemID int64) error {
	if err := s.store.DeleteItem(ctx, scopeID, itemID); err != nil {
		return err
	}
	return s.bumpTotalWords(ctx, scopeID, -1)
}

// Stats returns the scope's stats with the daily rollover applied. The
// rollover result is persisted when the day changed, so the reset is
// observed exactly once.
func (s *Service) Stats(ctx context.Context, scopeID int64) (*models.UserStats, error) {
	stats, err := s.loadStats(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	today := leitner.Today(s.clock.Now())
	rolled := leitner.Rollover(*stats, today)
	if rolled.LastActiveDate != stats.LastActiveDate || stats.ID == 0 {
		*stats = rolled
		if err := s.store.UpsertStats(ctx, stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// SetDailyGoal updates the user-configurable review target.
func (s *Service) SetDailyGoal(ctx context.Context, scopeID int64, goal int) (*models.UserStats, error) {
	if goal < 1 {
		return nil, fmt.Errorf("daily goal must be positive, got %d", goal)
	}
	stats, err := s.Stats(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	stats.DailyGoal = goal
	if err := s.store.UpsertStats(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// WeeklyActivity returns the stored daily rows for the trailing window
// ending today. Days without reviews have no row.
func (s *Service) WeeklyActivity(ctx context.Context, scopeID int64, days int) ([]models.DailyStat, error) {
	if days < 1 {
		days = 7
	}
	now := s.clock.Now()
	to := leitner.Today(now)
	from := leitner.Today(now.AddDate(0, 0, -(days - 1)))
	return s.store.ListDailyStats(ctx, scopeID, from, to)
}

// newItem builds a fresh card: box 1, due now.
func (s *Service) newItem(scopeID int64, fields models.ItemFields, now time.Time) *models.Item {
	return &models.Item{
		ScopeID:      scopeID,
		SourceText:   fields.SourceText,
		TargetText:   fields.TargetText,
		Examples:     fields.Examples,
		Category:     fields.Category,
		Mnemonic:     fields.Mnemonic,
		Box:          leitner.MinBox,
		NextReviewAt: now,
		CreatedAt:    now,
	}
}

// loadStats fetches the scope's stats, lazily initializing a default row
// in memory (not yet persisted) for scopes that were never touched.
func (s *Service) loadStats(ctx context.Context, scopeID int64) (*models.UserStats, error) {
	stats, err := s.store.GetStats(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &models.UserStats{
			ScopeID:      scopeID,
			Level:        1,
			DailyGoal:    DefaultDailyGoal,
			Achievements: models.AchievementSet{},
		}
	}
	if stats.Achievements == nil {
		stats.Achievements = models.AchievementSet{}
	}
	return stats, nil
}

// bumpTotalWords adjusts the scope word counter and re-checks the
// words-added achievements.
func (s *Service) bumpTotalWords(ctx context.Context, scopeID int64, delta int) error {
	stats, err := s.loadStats(ctx, scopeID)
	if err != nil {
		return err
	}
	*stats = leitner.Rollover(*stats, leitner.Today(s.clock.Now()))
	stats.TotalWords += delta
	if stats.TotalWords < 0 {
		stats.TotalWords = 0
	}
	leitner.Unlock(stats)
	return s.store.UpsertStats(ctx, stats)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
