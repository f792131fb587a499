// Package puzzles supplies puzzle sets: a deterministic built-in rotation
// and a Gemini-backed generator that falls back to it.
package puzzles

import (
	"context"
	"fmt"

	"github.com/vytor/puzzlequest/internal/models"
)

// PuzzlesPerSet is how many puzzles every source returns.
const PuzzlesPerSet = 3

type Request struct {
	Difficulty models.Difficulty
	UserID     string
	Mode       models.PuzzleMode
}

// Source produces a set of puzzles for a request.
type Source interface {
	Fetch(ctx context.Context, req Request) ([]models.Puzzle, error)
}

var pointsByDifficulty = map[models.Difficulty]int{
	models.DifficultyEasy:   10,
	models.DifficultyMedium: 25,
	models.DifficultyHard:   50,
	models.DifficultyExpert: 100,
}

// PointsFor returns the points a puzzle of difficulty d is worth.
func PointsFor(d models.Difficulty) int {
	if p, ok := pointsByDifficulty[d]; ok {
		return p
	}
	return 25
}

// Validate checks that p has the shape the progression engine relies on.
func Validate(p models.Puzzle) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("puzzle has no id")
	case p.Question == "":
		return fmt.Errorf("puzzle %s has no question", p.ID)
	case len(p.Options) < 2:
		return fmt.Errorf("puzzle %s has %d options, need at least 2", p.ID, len(p.Options))
	case p.CorrectAnswer < 0 || p.CorrectAnswer >= len(p.Options):
		return fmt.Errorf("puzzle %s correct answer %d out of range", p.ID, p.CorrectAnswer)
	case !p.Type.Valid():
		return fmt.Errorf("puzzle %s has unknown type %q", p.ID, p.Type)
	case !p.Difficulty.Valid():
		return fmt.Errorf("puzzle %s has unknown difficulty %q", p.ID, p.Difficulty)
	case p.Points <= 0:
		return fmt.Errorf("puzzle %s has no points", p.ID)
	}
	return nil
}

func normalize(req Request) Request {
	if !req.Difficulty.Valid() {
		req.Difficulty = models.DifficultyMedium
	}
	if req.Mode != models.ModePractice {
		req.Mode = models.ModeDaily
	}
	if req.UserID == "" {
		req.UserID = "guest"
	}
	return req
}
