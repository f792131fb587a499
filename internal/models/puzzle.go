package models

import "time"

// Difficulty is the closed set of puzzle difficulty tiers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Difficulties lists tiers from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// PuzzleType is the closed set of puzzle categories.
type PuzzleType string

const (
	TypeLogic   PuzzleType = "logic"
	TypeMath    PuzzleType = "math"
	TypeWord    PuzzleType = "word"
	TypePattern PuzzleType = "pattern"
)

var PuzzleTypes = []PuzzleType{TypeLogic, TypeMath, TypeWord, TypePattern}

func (t PuzzleType) Valid() bool {
	for _, known := range PuzzleTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PuzzleMode distinguishes the once-a-day challenge from free practice.
type PuzzleMode string

const (
	ModeDaily    PuzzleMode = "daily"
	ModePractice PuzzleMode = "practice"
)

type Puzzle struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Type          PuzzleType `json:"type"`
	Difficulty    Difficulty `json:"difficulty"`
	Points        int        `json:"points"`
}

type CompletedPuzzle struct {
	PuzzleID    string    `json:"puzzleId"`
	Answer      int       `json:"answer"`
	IsCorrect   bool      `json:"isCorrect"`
	TimeTaken   float64   `json:"timeTaken"`
	CompletedAt time.Time `json:"completedAt"`
}

// DailyPuzzleSet is the group of puzzles assigned for one calendar day.
type DailyPuzzleSet struct {
	Date      string            `json:"date"`
	Mode      PuzzleMode        `json:"mode"`
	Puzzles   []Puzzle          `json:"puzzles"`
	Completed []CompletedPuzzle `json:"completed"`
	StartTime time.Time         `json:"startTime"`
	ClosedAt  *time.Time        `json:"closedAt"`
}

// Find returns the puzzle with the given id, or nil.
func (s *DailyPuzzleSet) Find(id string) *Puzzle {
	for i := range s.Puzzles {
		if s.Puzzles[i].ID == id {
			return &s.Puzzles[i]
		}
	}
	return nil
}

// IsCompleted reports whether an answer was already recorded for id.
func (s *DailyPuzzleSet) IsCompleted(id string) bool {
	for _, c := range s.Completed {
		if c.PuzzleID == id {
			return true
		}
	}
	return false
}

// AllCompleted reports whether every puzzle in the set has an answer.
func (s *DailyPuzzleSet) AllCompleted() bool {
	return len(s.Puzzles) > 0 && len(s.Completed) >= len(s.Puzzles)
}
