package leitner

import (
	"time"

	"github.com/example/wordbox/pkg/models"
)

// Box boundaries of the Leitner system. Box 5 is the last box but items
// never leave the cycle: a box-5 card comes back after the longest
// interval.
const (
	MinBox = 1
	MaxBox = 5
)

// Intervals maps a box number to the delay before the item is due again.
var Intervals = map[int]time.Duration{
	1: 1 * time.Hour,
	2: 5 * time.Hour,
	3: 24 * time.Hour,
	4: 5 * 24 * time.Hour,
	5: 30 * 24 * time.Hour,
}

// Interval returns the review delay for a box, clamping out-of-range
// values into the valid set.
func Interval(box int) time.Duration {
	if box < MinBox {
		box = MinBox
	}
	if box > MaxBox {
		box = MaxBox
	}
	return Intervals[box]
}

// Advance applies one review outcome to an item. A correct answer moves
// the card up one box (capped at MaxBox); an incorrect answer demotes it
// all the way back to box 1. The function is pure given (item, correct,
// now) so callers inject the clock.
func Advance(item models.Item, correct bool, now time.Time) models.Item {
	if correct {
		if item.Box < MaxBox {
			item.Box++
		}
		item.TimesCorrect++
	} else {
		item.Box = MinBox
		item.TimesIncorrect++
	}
	item.TimesReviewed++
	item.NextReviewAt = now.Add(Interval(item.Box))
	reviewed := now
	item.LastReviewedAt = &reviewed
	return item
}

// Due filters items to those whose next review time has passed. Read-only
// and safe to call repeatedly; no ordering beyond input order.
func Due(items []models.Item, now time.Time) []models.Item {
	var due []models.Item
	for _, it := range items {
		if !it.NextReviewAt.After(now) {
			due = append(due, it)
		}
	}
	return due
}

// CountsByBox returns the box histogram. All five boxes are present in
// the result even when empty, and the counts sum to len(items).
func CountsByBox(items []models.Item) map[int]int {
	counts := make(map[int]int, MaxBox)
	for box := MinBox; box <= MaxBox; box++ {
		counts[box] = 0
	}
	for _, it := range items {
		box := it.Box
		if box < MinBox {
			box = MinBox
		}
		if box > MaxBox {
			box = MaxBox
		}
		counts[box]++
	}
	return counts
}
