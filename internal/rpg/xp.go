package rpg

import "math"

// XPToLevel converts accumulated experience to a level.
func XPToLevel(xp int) int {
	return int((math.Sqrt(float64(625+100*xp)) - 25) / 50)
}

// LevelToXP returns the experience required to reach level.
func LevelToXP(level int) int {
	return 25 * level * (1 + level)
}
