package models

// AnswerStats is the statistics snapshot returned with every answer.
// Accuracy values are percentages (0-100).
type AnswerStats struct {
	TotalSolved          int                   `json:"totalSolved"`
	Accuracy             float64               `json:"accuracy"`
	PreviousAccuracy     float64               `json:"previousAccuracy"`
	CurrentSessionStreak int                   `json:"currentSessionStreak"`
	BestSessionStreak    int                   `json:"bestSessionStreak"`
	DailyStreak          int                   `json:"dailyStreak"`
	LongestDailyStreak   int                   `json:"longestDailyStreak"`
	DifficultyBreakdown  map[Difficulty]Bucket `json:"difficultyBreakdown"`
	TypeBreakdown        map[PuzzleType]Bucket `json:"typeBreakdown"`
}

type AnswerResult struct {
	IsCorrect   bool        `json:"isCorrect"`
	Points      int         `json:"points"`
	NewXP       int         `json:"newXP"`
	NewLevel    int         `json:"newLevel"`
	LeveledUp   bool        `json:"leveledUp"`
	NewIQ       int         `json:"newIQ"`
	Explanation string      `json:"explanation"`
	Stats       AnswerStats `json:"stats"`
}

type DailyChallengeResult struct {
	BonusXP         int           `json:"bonusXP"`
	NewAchievements []Achievement `json:"newAchievements"`
	Streak          int           `json:"streak"`
}

// DailySubmission is what a daily-set answer produces: the engine result
// plus the closing bonus when the answer finished the set.
type DailySubmission struct {
	Result    AnswerResult          `json:"result"`
	Remaining int                   `json:"remaining"`
	Challenge *DailyChallengeResult `json:"challenge,omitempty"`
}

type SessionResult struct {
	NewSession    bool `json:"newSession"`
	SessionStreak int  `json:"sessionStreak"`
}

type WeeklyReport struct {
	PuzzlesSolved int      `json:"puzzlesSolved"`
	AverageIQ     int      `json:"averageIQ"`
	Streak        int      `json:"streak"`
	Level         int      `json:"level"`
	XPGained      int      `json:"xpGained"`
	Improvements  []string `json:"improvements"`
}

type LevelProgress struct {
	Level          int `json:"level"`
	TotalXP        int `json:"totalXP"`
	CurrentLevelXP int `json:"currentLevelXP"`
	NextLevelXP    int `json:"nextLevelXP"`
}

// AnswerSubmission is an answer to one puzzle of the current set.
// Selected is nil when no option was chosen.
type AnswerSubmission struct {
	PuzzleID  string  `json:"puzzleId"`
	Selected  *int    `json:"selected"`
	TimeTaken float64 `json:"timeTaken"`
}
