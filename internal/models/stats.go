package models

// Bucket counts answers for one category.
type Bucket struct {
	Solved  int `json:"solved"`
	Correct int `json:"correct"`
}

type DayStats struct {
	Solved       int                   `json:"solved"`
	Correct      int                   `json:"correct"`
	ByDifficulty map[Difficulty]Bucket `json:"byDifficulty"`
	ByType       map[PuzzleType]Bucket `json:"byType"`
}

type Stats struct {
	TotalPuzzlesSolved int                   `json:"totalPuzzlesSolved"`
	CorrectAnswers     int                   `json:"correctAnswers"`
	IncorrectAnswers   int                   `json:"incorrectAnswers"`
	AverageTime        float64               `json:"averageTime"`
	BestTime           *float64              `json:"bestTime"`
	ByDifficulty       map[Difficulty]Bucket `json:"byDifficulty"`
	ByType             map[PuzzleType]Bucket `json:"byType"`
	DailyStats         map[string]DayStats   `json:"dailyStats"`
}

func DefaultStats() Stats {
	s := Stats{
		ByDifficulty: make(map[Difficulty]Bucket, len(Difficulties)),
		ByType:       make(map[PuzzleType]Bucket, len(PuzzleTypes)),
		DailyStats:   make(map[string]DayStats),
	}
	for _, d := range Difficulties {
		s.ByDifficulty[d] = Bucket{}
	}
	for _, t := range PuzzleTypes {
		s.ByType[t] = Bucket{}
	}
	return s
}

// Accuracy returns correct/total as a fraction, or 0 when nothing was answered.
func (s *Stats) Accuracy() float64 {
	if s.TotalPuzzlesSolved == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalPuzzlesSolved)
}

// Tally records one answer in the per-difficulty, per-type and per-day
// buckets, creating any bucket that does not exist yet.
func (s *Stats) Tally(day string, d Difficulty, t PuzzleType, correct bool) {
	if s.ByDifficulty == nil {
		s.ByDifficulty = make(map[Difficulty]Bucket)
	}
	if s.ByType == nil {
		s.ByType = make(map[PuzzleType]Bucket)
	}
	if s.DailyStats == nil {
		s.DailyStats = make(map[string]DayStats)
	}
	count(s.ByDifficulty, d, correct)
	count(s.ByType, t, correct)

	ds := s.DailyStats[day]
	if ds.ByDifficulty == nil {
		ds.ByDifficulty = make(map[Difficulty]Bucket)
	}
	if ds.ByType == nil {
		ds.ByType = make(map[PuzzleType]Bucket)
	}
	ds.Solved++
	if correct {
		ds.Correct++
	}
	count(ds.ByDifficulty, d, correct)
	count(ds.ByType, t, correct)
	s.DailyStats[day] = ds
}

func count[K comparable](m map[K]Bucket, key K, correct bool) {
	b := m[key]
	b.Solved++
	if correct {
		b.Correct++
	}
	m[key] = b
}
