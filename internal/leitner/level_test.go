package leitner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelDerivation(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{xp: 0, want: 1},
		{xp: 99, want: 1},
		{xp: XPPerLevel, want: 2},
		{xp: XPPerLevel*3 - 1, want: 3},
		{xp: XPPerLevel * 3, want: 4},
		{xp: -5, want: 1}, // defensive clamp
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelProgress(t *testing.T) {
	assert.Equal(t, 0, LevelProgress(0))
	assert.Equal(t, 45, LevelProgress(145))
	assert.Equal(t, 0, LevelProgress(200))
}

func TestXPForNextLevel(t *testing.T) {
	assert.Equal(t, 100, XPForNextLevel(1))
	assert.Equal(t, 500, XPForNextLevel(5))
}

func TestReviewXP(t *testing.T) {
	// Both outcomes earn XP; a wrong answer still pays a little.
	assert.Equal(t, XPPerCorrect, ReviewXP(true))
	assert.Equal(t, XPPerIncorrect, ReviewXP(false))
	assert.Greater(t, ReviewXP(true), ReviewXP(false))
}
