package leitner

// XP constants. Incorrect answers still earn a small amount so that a
// failed session is not a wasted one.
const (
	XPPerLevel     = 100
	XPPerCorrect   = 10
	XPPerIncorrect = 2
)

// Level derives the level from cumulative XP. Level 1 starts at 0 XP.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// LevelProgress returns the XP earned within the current level.
func LevelProgress(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp % XPPerLevel
}

// XPForNextLevel returns the cumulative XP needed to leave the given level.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * XPPerLevel
}

// ReviewXP returns the XP awarded for a single review outcome.
func ReviewXP(correct bool) int {
	if correct {
		return XPPerCorrect
	}
	return XPPerIncorrect
}
