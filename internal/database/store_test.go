package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbox/internal/review"
	"github.com/example/wordbox/pkg/models"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	DB = db
	require.NoError(t, initializeSchema())
	t.Cleanup(func() {
		_ = db.Close()
		DB = nil
	})
}

func newTestScope(t *testing.T) *models.Scope {
	t.Helper()
	scope, err := NewScopeRepository().GetOrCreate(context.Background(), 100, "en", "ru")
	require.NoError(t, err)
	return scope
}

func newTestItem(t *testing.T, scopeID int64, source string) *models.Item {
	t.Helper()
	item := &models.Item{
		ScopeID:      scopeID,
		SourceText:   source,
		TargetText:   "translation of " + source,
		Box:          1,
		NextReviewAt: testNow,
		CreatedAt:    testNow,
	}
	require.NoError(t, NewItemRepository().Create(context.Background(), item))
	return item
}

func TestScopeRepository(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	repo := NewScopeRepository()

	first, err := repo.GetOrCreate(ctx, 100, "en", "ru")
	require.NoError(t, err)
	assert.True(t, first.Active)

	// Same pair returns the same row.
	again, err := repo.GetOrCreate(ctx, 100, "en", "ru")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// A second pair becomes the active one.
	second, err := repo.GetOrCreate(ctx, 100, "en", "es")
	require.NoError(t, err)
	active, err := repo.ActiveForUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	// Switch back.
	require.NoError(t, repo.SetActive(ctx, 100, first.ID))
	active, err = repo.ActiveForUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	scopes, err := repo.ListForUser(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, scopes, 2)

	_, err = repo.ActiveForUser(ctx, 999)
	assert.ErrorIs(t, err, review.ErrNotFound)
}

func TestItemRepositoryCRUD(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	scope := newTestScope(t)
	repo := NewItemRepository()

	item := newTestItem(t, scope.ID, "perro")
	require.NotZero(t, item.ID)

	// Duplicate source text in the same scope is rejected.
	dup := &models.Item{ScopeID: scope.ID, SourceText: "perro", TargetText: "x", Box: 1, NextReviewAt: testNow, CreatedAt: testNow}
	assert.ErrorIs(t, repo.Create(ctx, dup), review.ErrDuplicate)

	// Case-sensitive match: "Perro" is a different card.
	cased := &models.Item{ScopeID: scope.ID, SourceText: "Perro", TargetText: "x", Box: 1, NextReviewAt: testNow, CreatedAt: testNow}
	assert.NoError(t, repo.Create(ctx, cased))

	got, err := repo.Get(ctx, scope.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "perro", got.SourceText)
	assert.Nil(t, got.LastReviewedAt)

	// Ownership check.
	_, err = repo.Get(ctx, scope.ID+1, item.ID)
	assert.ErrorIs(t, err, review.ErrNotFound)

	reviewed := testNow.Add(time.Minute)
	got.Box = 2
	got.TimesReviewed = 1
	got.TimesCorrect = 1
	got.NextReviewAt = reviewed.Add(5 * time.Hour)
	got.LastReviewedAt = &reviewed
	require.NoError(t, repo.Update(ctx, got))

	stored, err := repo.Get(ctx, scope.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Box)
	require.NotNil(t, stored.LastReviewedAt)

	items, err := repo.ListByScope(ctx, scope.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	assert.ErrorIs(t, repo.Delete(ctx, scope.ID+1, item.ID), review.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, scope.ID, item.ID))
	_, err = repo.Get(ctx, scope.ID, item.ID)
	assert.ErrorIs(t, err, review.ErrNotFound)
}

func TestStatsRepositoryUpsert(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	scope := newTestScope(t)
	repo := NewStatsRepository()

	absent, err := repo.GetByScope(ctx, scope.ID)
	require.NoError(t, err)
	assert.Nil(t, absent)

	stats := &models.UserStats{
		ScopeID:        scope.ID,
		TotalWords:     1,
		Level:          1,
		DailyGoal:      20,
		LastActiveDate: "2026-03-10",
		Achievements:   models.AchievementSet{"first_word": true},
	}
	require.NoError(t, repo.Upsert(ctx, stats))
	assert.Equal(t, int64(1), stats.Version)

	got, err := repo.GetByScope(ctx, scope.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalWords)
	assert.True(t, got.Achievements.Has("first_word"))
	assert.Equal(t, int64(1), got.Version)

	got.XP = 10
	got.Level = 1
	require.NoError(t, repo.Upsert(ctx, got))
	assert.Equal(t, int64(2), got.Version)

	// A stale writer loses.
	stale := got.Clone()
	stale.Version = 1
	assert.ErrorIs(t, repo.Upsert(ctx, stale), review.ErrConflict)
}

func TestDailyStatRepositoryAccumulates(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	scope := newTestScope(t)
	repo := NewDailyStatRepository()

	require.NoError(t, repo.Append(ctx, scope.ID, "2026-03-10", models.DailyDelta{WordsReviewed: 1, WordsCorrect: 1, XPEarned: 10}))
	require.NoError(t, repo.Append(ctx, scope.ID, "2026-03-10", models.DailyDelta{WordsReviewed: 1, XPEarned: 2}))
	require.NoError(t, repo.Append(ctx, scope.ID, "2026-03-12", models.DailyDelta{WordsReviewed: 3, WordsCorrect: 2, XPEarned: 30}))

	rows, err := repo.ListRange(ctx, scope.ID, "2026-03-08", "2026-03-14")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2026-03-10", rows[0].Date)
	assert.Equal(t, 2, rows[0].WordsReviewed)
	assert.Equal(t, 1, rows[0].WordsCorrect)
	assert.Equal(t, 12, rows[0].XPEarned)
	assert.Equal(t, "2026-03-12", rows[1].Date)

	// Range excludes outside dates.
	rows, err = repo.ListRange(ctx, scope.ID, "2026-03-11", "2026-03-14")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestStoreApplyReviewAtomicAndIdempotent(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	scope := newTestScope(t)
	item := newTestItem(t, scope.ID, "perro")
	store := NewStore()

	stats := &models.UserStats{ScopeID: scope.ID, Level: 1, DailyGoal: 20, Achievements: models.AchievementSet{}}
	require.NoError(t, store.UpsertStats(ctx, stats))

	reviewed := testNow
	item.Box = 2
	item.TimesReviewed = 1
	item.TimesCorrect = 1
	item.NextReviewAt = testNow.Add(5 * time.Hour)
	item.LastReviewedAt = &reviewed

	stats.TotalReviews = 1
	stats.TodayReviewed = 1
	stats.TodayCorrect = 1
	stats.XP = 10
	stats.LastActiveDate = "2026-03-10"

	rec := review.ReviewRecord{
		SubmissionID: "sub-1",
		Item:         item,
		Stats:        stats,
		Date:         "2026-03-10",
		Delta:        models.DailyDelta{WordsReviewed: 1, WordsCorrect: 1, XPEarned: 10},
	}
	require.NoError(t, store.ApplyReview(ctx, rec))

	// Everything landed.
	storedItem, err := store.GetItem(ctx, scope.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, storedItem.Box)

	storedStats, err := store.GetStats(ctx, scope.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, storedStats.XP)

	rows, err := store.ListDailyStats(ctx, scope.ID, "2026-03-10", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].WordsReviewed)

	// Replaying the same submission changes nothing.
	rec.Stats = storedStats
	assert.ErrorIs(t, store.ApplyReview(ctx, rec), review.ErrAlreadyApplied)
	rows, err = store.ListDailyStats(ctx, scope.ID, "2026-03-10", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].WordsReviewed)
}

func TestStoreApplyReviewConflictRollsBack(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	scope := newTestScope(t)
	item := newTestItem(t, scope.ID, "perro")
	store := NewStore()

	stats := &models.UserStats{ScopeID: scope.ID, Level: 1, DailyGoal: 20, Achievements: models.AchievementSet{}}
	require.NoError(t, store.UpsertStats(ctx, stats))

	stale := stats.Clone()
	stale.Version = 0
	stale.XP = 10

	rec := review.ReviewRecord{
		SubmissionID: "sub-2",
		Item:         item,
		Stats:        stale,
		Date:         "2026-03-10",
		Delta:        models.DailyDelta{WordsReviewed: 1, XPEarned: 10},
	}
	assert.ErrorIs(t, store.ApplyReview(ctx, rec), review.ErrConflict)

	// The rollback kept the daily table clean, and the submission key was
	// not burned: a corrected retry succeeds.
	rows, err := store.ListDailyStats(ctx, scope.ID, "2026-03-10", "2026-03-10")
	require.NoError(t, err)
	assert.Empty(t, rows)

	fresh, err := store.GetStats(ctx, scope.ID)
	require.NoError(t, err)
	fresh.XP = 10
	rec.Stats = fresh
	assert.NoError(t, store.ApplyReview(ctx, rec))
}

func TestStoreEndToEndWithService(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	scope := newTestScope(t)
	store := NewStore()
	svc := review.NewService(store, fixedClock{now: testNow})

	item, err := svc.AddItem(ctx, scope.ID, models.ItemFields{SourceText: "perro", TargetText: "dog"})
	require.NoError(t, err)

	out, err := svc.ProcessReview(ctx, review.Submission{ScopeID: scope.ID, ItemID: item.ID, Correct: true})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Item.Box)
	assert.Equal(t, 1, out.Stats.TodayReviewed)
	assert.True(t, out.Stats.Achievements.Has("first_word"))

	counts, err := svc.BoxCounts(ctx, scope.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[2])
	assert.Equal(t, 0, counts[1])
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
