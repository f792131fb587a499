// Package achievements decides which one-time milestones a profile has
// earned.
package achievements

import (
	"time"

	"github.com/vytor/puzzlequest/internal/models"
)

// Rule is one unlockable milestone.
type Rule struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Met         func(p *models.Progress, s *models.Stats) bool
}

// Rules is the fixed achievement table, checked in this order.
var Rules = []Rule{
	{
		ID: "week_streak", Title: "Week Warrior", Icon: "🔥",
		Description: "Complete puzzles for 7 days in a row",
		Met:         func(p *models.Progress, _ *models.Stats) bool { return p.Streak >= 7 },
	},
	{
		ID: "month_streak", Title: "Monthly Master", Icon: "👑",
		Description: "Complete puzzles for 30 days in a row",
		Met:         func(p *models.Progress, _ *models.Stats) bool { return p.Streak >= 30 },
	},
	{
		ID: "puzzle_50", Title: "Puzzle Novice", Icon: "🧩",
		Description: "Solve 50 puzzles",
		Met:         func(p *models.Progress, _ *models.Stats) bool { return p.PuzzlesSolved >= 50 },
	},
	{
		ID: "puzzle_100", Title: "Puzzle Expert", Icon: "🎯",
		Description: "Solve 100 puzzles",
		Met:         func(p *models.Progress, _ *models.Stats) bool { return p.PuzzlesSolved >= 100 },
	},
	{
		ID: "high_iq", Title: "Brain Genius", Icon: "🧠",
		Description: "Achieve an IQ score of 130+",
		Met:         func(p *models.Progress, _ *models.Stats) bool { return p.AverageIQ >= 130 },
	},
	{
		ID: "level_5", Title: "Rising Star", Icon: "⭐",
		Description: "Reach level 5",
		Met:         func(p *models.Progress, _ *models.Stats) bool { return p.Level >= 5 },
	},
	{
		ID: "level_10", Title: "Puzzle Legend", Icon: "🏆",
		Description: "Reach level 10",
		Met:         func(p *models.Progress, _ *models.Stats) bool { return p.Level >= 10 },
	},
	{
		ID: "accuracy_90", Title: "Precision Master", Icon: "🎯",
		Description: "Maintain 90% accuracy over 20+ puzzles",
		Met: func(_ *models.Progress, s *models.Stats) bool {
			return s.TotalPuzzlesSolved >= 20 && s.Accuracy() >= 0.9
		},
	},
}

// Evaluate returns every achievement whose rule is met and whose id is not
// already held by p. It does not modify p.
func Evaluate(p models.Progress, s models.Stats, now time.Time) []models.Achievement {
	var unlocked []models.Achievement
	for _, r := range Rules {
		if p.HasAchievement(r.ID) || !r.Met(&p, &s) {
			continue
		}
		unlocked = append(unlocked, models.Achievement{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Icon:        r.Icon,
			Date:        now,
		})
	}
	return unlocked
}
