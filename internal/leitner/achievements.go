package leitner

import "github.com/example/wordbox/pkg/models"

// Dimension names the stat an achievement threshold is checked against.
type Dimension string

const (
	DimWordsAdded   Dimension = "words_added"
	DimStreak       Dimension = "streak"
	DimTotalReviews Dimension = "total_reviews"
	DimLevel        Dimension = "level"
)

// Achievement is one entry of the static catalog: unlock when the
// dimension's current value reaches the threshold.
type Achievement struct {
	ID        string
	Title     string
	Dimension Dimension
	Threshold int
}

// Catalog is the fixed achievement table. Adding a badge means adding a
// row here, not adding code.
var Catalog = []Achievement{
	{ID: "first_word", Title: "First Word", Dimension: DimWordsAdded, Threshold: 1},
	{ID: "collector_10", Title: "Collector", Dimension: DimWordsAdded, Threshold: 10},
	{ID: "collector_50", Title: "Lexicographer", Dimension: DimWordsAdded, Threshold: 50},
	{ID: "collector_200", Title: "Walking Dictionary", Dimension: DimWordsAdded, Threshold: 200},
	{ID: "streak_3", Title: "Warming Up", Dimension: DimStreak, Threshold: 3},
	{ID: "streak_7", Title: "One Week Strong", Dimension: DimStreak, Threshold: 7},
	{ID: "streak_30", Title: "Iron Habit", Dimension: DimStreak, Threshold: 30},
	{ID: "reviews_10", Title: "Getting Started", Dimension: DimTotalReviews, Threshold: 10},
	{ID: "reviews_100", Title: "Diligent", Dimension: DimTotalReviews, Threshold: 100},
	{ID: "reviews_1000", Title: "Relentless", Dimension: DimTotalReviews, Threshold: 1000},
	{ID: "level_5", Title: "Apprentice", Dimension: DimLevel, Threshold: 5},
	{ID: "level_10", Title: "Scholar", Dimension: DimLevel, Threshold: 10},
	{ID: "level_20", Title: "Master", Dimension: DimLevel, Threshold: 20},
}

// ByID looks up a catalog entry.
func ByID(id string) (Achievement, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

func dimensionValue(stats *models.UserStats, d Dimension) int {
	switch d {
	case DimWordsAdded:
		return stats.TotalWords
	case DimStreak:
		return stats.Streak
	case DimTotalReviews:
		return stats.TotalReviews
	case DimLevel:
		return Level(stats.XP)
	}
	return 0
}

// Unlock evaluates the catalog against the current stats, adds every
// newly qualifying achievement to the set and returns their IDs.
// Already-unlocked achievements are never touched, so unlocks survive a
// later drop of the dimension (a streak reset keeps streak badges), and
// calling Unlock twice with the same stats yields nothing the second
// time.
func Unlock(stats *models.UserStats) []string {
	if stats.Achievements == nil {
		stats.Achievements = models.AchievementSet{}
	}
	var unlocked []string
	for _, a := range Catalog {
		if stats.Achievements.Has(a.ID) {
			continue
		}
		if dimensionValue(stats, a.Dimension) >= a.Threshold {
			stats.Achievements.Add(a.ID)
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}
