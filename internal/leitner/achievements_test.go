package leitner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbox/pkg/models"
)

func TestUnlockByThreshold(t *testing.T) {
	stats := &models.UserStats{
		TotalWords:   10,
		Streak:       3,
		TotalReviews: 9,
		XP:           420, // level 5
		Achievements: models.AchievementSet{},
	}
	unlocked := Unlock(stats)

	assert.ElementsMatch(t, []string{"first_word", "collector_10", "streak_3", "level_5"}, unlocked)
	for _, id := range unlocked {
		assert.True(t, stats.Achievements.Has(id))
	}
	assert.False(t, stats.Achievements.Has("reviews_10"), "9 reviews must not unlock the 10-review badge")
}

func TestUnlockIsIdempotent(t *testing.T) {
	stats := &models.UserStats{TotalWords: 1, Achievements: models.AchievementSet{}}

	first := Unlock(stats)
	require.Equal(t, []string{"first_word"}, first)

	second := Unlock(stats)
	assert.Empty(t, second, "re-evaluating the same stats unlocks nothing new")
	assert.Len(t, stats.Achievements, 1)
}

func TestUnlockIsMonotonic(t *testing.T) {
	stats := &models.UserStats{Streak: 7, Achievements: models.AchievementSet{}}
	Unlock(stats)
	require.True(t, stats.Achievements.Has("streak_7"))

	// A streak reset never revokes the badge.
	stats.Streak = 0
	Unlock(stats)
	assert.True(t, stats.Achievements.Has("streak_7"))
}

func TestUnlockInitializesNilSet(t *testing.T) {
	stats := &models.UserStats{TotalWords: 1}
	unlocked := Unlock(stats)
	assert.Equal(t, []string{"first_word"}, unlocked)
	assert.NotNil(t, stats.Achievements)
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Catalog {
		assert.False(t, seen[a.ID], "duplicate achievement id %s", a.ID)
		seen[a.ID] = true
		assert.Greater(t, a.Threshold, 0)
	}
}

func TestByID(t *testing.T) {
	a, ok := ByID("streak_7")
	require.True(t, ok)
	assert.Equal(t, "One Week Strong", a.Title)

	_, ok = ByID("no_such_badge")
	assert.False(t, ok)
}
