// Package scoring holds the pure arithmetic of progression: the IQ
// heuristic, the XP level curve and difficulty stepping.
package scoring

import (
	"math"

	"github.com/vytor/puzzlequest/internal/models"
)

const (
	MinIQ     = 70
	MaxIQ     = 200
	NeutralIQ = 100
)

var difficultyWeights = map[models.Difficulty]float64{
	models.DifficultyEasy:   0.8,
	models.DifficultyMedium: 1.0,
	models.DifficultyHard:   1.3,
	models.DifficultyExpert: 1.6,
}

// DifficultyWeight returns the IQ weight for d. Unknown tiers weigh 1.
func DifficultyWeight(d models.Difficulty) float64 {
	if w, ok := difficultyWeights[d]; ok {
		return w
	}
	return 1.0
}

// EstimateIQ maps answer accuracy, difficulty and speed to a score in
// [MinIQ, MaxIQ]. With nothing answered it returns NeutralIQ.
// Negative times count as zero.
func EstimateIQ(correct, total int, d models.Difficulty, timeTakenSeconds float64) int {
	if total == 0 {
		return NeutralIQ
	}
	if timeTakenSeconds < 0 {
		timeTakenSeconds = 0
	}
	accuracy := float64(correct) / float64(total)
	timeBonus := math.Max(0, 1-timeTakenSeconds/(float64(total)*60))
	adjustment := (accuracy-0.5)*50*DifficultyWeight(d) + timeBonus*10

	iq := math.Min(math.Max(NeutralIQ+adjustment, MinIQ), MaxIQ)
	return int(math.Round(iq))
}

// levelThresholds[i] is the total XP needed to reach level i+1.
var levelThresholds = []int{0, 100, 250, 450, 700, 1000}

const xpPerLevelAfterSix = 350

// LevelForXP returns the level reached with totalXP.
func LevelForXP(totalXP int) int {
	if totalXP >= 1000 {
		return (totalXP-1000)/xpPerLevelAfterSix + 6
	}
	level := 1
	for i, threshold := range levelThresholds {
		if totalXP >= threshold {
			level = i + 1
		}
	}
	return level
}

// XPRequiredForLevel returns the total XP at which level is completed,
// i.e. the requirement for level+1. Level 5 completes at 1000 and every
// level beyond adds 350.
func XPRequiredForLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level < 5 {
		return levelThresholds[level]
	}
	return 1000 + (level-5)*xpPerLevelAfterSix
}

// Progress describes where totalXP sits between the current level's floor
// and the next level's requirement.
func Progress(level, totalXP int) models.LevelProgress {
	current := 0
	if level > 1 {
		current = XPRequiredForLevel(level - 1)
	}
	return models.LevelProgress{
		Level:          level,
		TotalXP:        totalXP,
		CurrentLevelXP: current,
		NextLevelXP:    XPRequiredForLevel(level),
	}
}

// NextDifficulty steps the current tier up after sustained accuracy
// (>= 80% over 10+ answers) or down after a poor run (< 50% over 5+).
func NextDifficulty(current models.Difficulty, stats models.Stats) models.Difficulty {
	idx := indexOf(current)
	if idx < 0 {
		return current
	}
	accuracy := stats.Accuracy()
	switch {
	case accuracy >= 0.8 && stats.TotalPuzzlesSolved >= 10 && idx < len(models.Difficulties)-1:
		return models.Difficulties[idx+1]
	case accuracy < 0.5 && stats.TotalPuzzlesSolved >= 5 && idx > 0:
		return models.Difficulties[idx-1]
	}
	return current
}

func indexOf(d models.Difficulty) int {
	for i, known := range models.Difficulties {
		if known == d {
			return i
		}
	}
	return -1
}
