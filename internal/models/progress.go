package models

import "time"

type IQEntry struct {
	Date       time.Time  `json:"date"`
	IQ         int        `json:"iq"`
	PuzzleType PuzzleType `json:"puzzleType"`
	Difficulty Difficulty `json:"difficulty"`
	IsCorrect  bool       `json:"isCorrect"`
	TimeTaken  float64    `json:"timeTaken"`
}

type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Date        time.Time `json:"date"`
}

// Progress is the per-profile progression record.
//
// Level is always derived from TotalXP; AverageIQ holds the most recent
// estimate rather than a mean.
type Progress struct {
	Level             int           `json:"level"`
	XP                int           `json:"xp"`
	TotalXP           int           `json:"totalXP"`
	Streak            int           `json:"streak"`
	LongestStreak     int           `json:"longestStreak"`
	SessionStreak     int           `json:"sessionStreak"`
	BestSessionStreak int           `json:"bestSessionStreak"`
	PuzzlesSolved     int           `json:"puzzlesSolved"`
	AverageIQ         int           `json:"averageIQ"`
	IQHistory         []IQEntry     `json:"iqHistory"`
	Difficulty        Difficulty    `json:"difficulty"`
	Achievements      []Achievement `json:"achievements"`
	LastPlayDate      *string       `json:"lastPlayDate"`
	LastSessionTime   *time.Time    `json:"lastSessionTime"`
}

func DefaultProgress() Progress {
	return Progress{
		Level:        1,
		AverageIQ:    100,
		IQHistory:    []IQEntry{},
		Difficulty:   DifficultyMedium,
		Achievements: []Achievement{},
	}
}

// HasAchievement reports whether id was already awarded.
func (p *Progress) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}
