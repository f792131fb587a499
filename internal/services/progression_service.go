package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/puzzlequest/internal/achievements"
	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/errors"
	"github.com/vytor/puzzlequest/internal/events"
	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/scoring"
	"github.com/vytor/puzzlequest/internal/store"
)

// DefaultSessionIdle is the gap after which a new session starts.
const DefaultSessionIdle = 30 * time.Minute

// ProgressionService applies answers and daily completions to the
// profile's progress and stats.
type ProgressionService interface {
	// RecordAnswer scores one answer. The puzzle and selection are
	// expected to be validated already. Records in also are saved in the
	// same transaction as progress and stats.
	RecordAnswer(ctx context.Context, puzzle models.Puzzle, selected int, timeTaken float64, also ...store.Record) (*models.AnswerResult, error)
	CloseDailyChallenge(ctx context.Context, also ...store.Record) (*models.DailyChallengeResult, error)
	StartSession(ctx context.Context) (*models.SessionResult, error)
}

type progressionService struct {
	store    *store.Store
	clock    clock.Clock
	notifier Notifier
	idle     time.Duration

	// mu serialises every read-modify-write of progress and stats.
	mu sync.Mutex
}

// NewProgressionService creates a new ProgressionService
func NewProgressionService(st *store.Store, c clock.Clock, n Notifier, sessionIdle time.Duration) ProgressionService {
	if sessionIdle <= 0 {
		sessionIdle = DefaultSessionIdle
	}
	return &progressionService{store: st, clock: c, notifier: orNop(n), idle: sessionIdle}
}

func (s *progressionService) RecordAnswer(ctx context.Context, puzzle models.Puzzle, selected int, timeTaken float64, also ...store.Record) (*models.AnswerResult, error) {
	log := logger.FromContext(ctx).WithPrefix("progression")
	log.Debug("recording answer: puzzle=%s, selected=%d, time=%.1fs", puzzle.ID, selected, timeTaken)

	if timeTaken < 0 {
		timeTaken = 0
	}
	isCorrect := selected == puzzle.CorrectAnswer
	points := 0
	if isCorrect {
		points = puzzle.Points
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	progress, stats, err := s.load(ctx)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	previousAccuracy := stats.Accuracy() * 100

	if isCorrect {
		progress.XP += points
		progress.TotalXP += points
		progress.PuzzlesSolved++
		stats.CorrectAnswers++
	} else {
		stats.IncorrectAnswers++
	}
	stats.TotalPuzzlesSolved++

	now := s.clock.Now()
	stats.Tally(clock.DayKey(now), puzzle.Difficulty, puzzle.Type, isCorrect)

	// A running halving average, not a true mean.
	if stats.AverageTime == 0 {
		stats.AverageTime = timeTaken
	} else {
		stats.AverageTime = (stats.AverageTime + timeTaken) / 2
	}
	if stats.BestTime == nil || timeTaken < *stats.BestTime {
		best := timeTaken
		stats.BestTime = &best
	}

	newIQ := scoring.EstimateIQ(stats.CorrectAnswers, stats.TotalPuzzlesSolved, puzzle.Difficulty, timeTaken)
	progress.IQHistory = append(progress.IQHistory, models.IQEntry{
		Date:       now,
		IQ:         newIQ,
		PuzzleType: puzzle.Type,
		Difficulty: puzzle.Difficulty,
		IsCorrect:  isCorrect,
		TimeTaken:  timeTaken,
	})
	progress.AverageIQ = newIQ

	if isCorrect {
		progress.SessionStreak++
		progress.BestSessionStreak = max(progress.BestSessionStreak, progress.SessionStreak)
	} else {
		progress.SessionStreak = 0
	}

	newLevel := scoring.LevelForXP(progress.TotalXP)
	leveledUp := newLevel > progress.Level
	if leveledUp {
		progress.Level = newLevel
	}

	if err := s.save(ctx, progress, stats, also...); err != nil {
		log.Error("failed to save answer: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.notifier.Publish(ctx, events.Event{Type: events.StatsChanged, Source: "answer", At: now})

	if leveledUp {
		log.Info("level up: %d", newLevel)
	}

	return &models.AnswerResult{
		IsCorrect:   isCorrect,
		Points:      points,
		NewXP:       progress.XP,
		NewLevel:    progress.Level,
		LeveledUp:   leveledUp,
		NewIQ:       newIQ,
		Explanation: puzzle.Explanation,
		Stats: models.AnswerStats{
			TotalSolved:          stats.TotalPuzzlesSolved,
			Accuracy:             stats.Accuracy() * 100,
			PreviousAccuracy:     previousAccuracy,
			CurrentSessionStreak: progress.SessionStreak,
			BestSessionStreak:    progress.BestSessionStreak,
			DailyStreak:          progress.Streak,
			LongestDailyStreak:   progress.LongestStreak,
			DifficultyBreakdown:  stats.ByDifficulty,
			TypeBreakdown:        stats.ByType,
		},
	}, nil
}

func (s *progressionService) CloseDailyChallenge(ctx context.Context, also ...store.Record) (*models.DailyChallengeResult, error) {
	log := logger.FromContext(ctx).WithPrefix("progression")
	log.Debug("closing daily challenge")

	s.mu.Lock()
	defer s.mu.Unlock()

	progress, stats, err := s.load(ctx)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// The streak moves first: the bonus depends on its new value.
	today, yesterday := clock.Today(s.clock), clock.Yesterday(s.clock)
	switch {
	case progress.LastPlayDate != nil && *progress.LastPlayDate == yesterday:
		progress.Streak++
	case progress.LastPlayDate == nil || *progress.LastPlayDate != today:
		progress.Streak = 1
	}
	progress.LongestStreak = max(progress.LongestStreak, progress.Streak)
	progress.LastPlayDate = &today

	bonus := 50 + progress.Streak*10
	progress.XP += bonus
	progress.TotalXP += bonus
	progress.Level = max(progress.Level, scoring.LevelForXP(progress.TotalXP))

	now := s.clock.Now()
	unlocked := achievements.Evaluate(progress, stats, now)
	progress.Achievements = append(progress.Achievements, unlocked...)

	records := append([]store.Record{{Kind: store.KindProgress, Value: progress}}, also...)
	if err := s.store.SaveAll(ctx, records...); err != nil {
		log.Error("failed to save daily completion: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.notifier.Publish(ctx, events.Event{Type: events.StatsChanged, Source: "daily_challenge", At: now})

	log.Info("daily challenge closed: streak=%d, bonus=%d, achievements=%d", progress.Streak, bonus, len(unlocked))
	if unlocked == nil {
		unlocked = []models.Achievement{}
	}
	return &models.DailyChallengeResult{BonusXP: bonus, NewAchievements: unlocked, Streak: progress.Streak}, nil
}

func (s *progressionService) StartSession(ctx context.Context) (*models.SessionResult, error) {
	log := logger.FromContext(ctx).WithPrefix("progression")

	s.mu.Lock()
	defer s.mu.Unlock()

	progress, err := s.store.Progress(ctx)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.clock.Now()
	fresh := progress.LastSessionTime == nil || now.Sub(*progress.LastSessionTime) > s.idle
	if fresh {
		progress.SessionStreak = 0
	}
	progress.LastSessionTime = &now

	update := map[string]any{"sessionStreak": progress.SessionStreak, "lastSessionTime": now}
	if err := s.store.Save(ctx, store.KindProgress, update); err != nil {
		log.Error("failed to save session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("session started: new=%t", fresh)
	if fresh {
		s.notifier.Publish(ctx, events.Event{Type: events.StatsChanged, Source: "session", At: now})
	}
	return &models.SessionResult{NewSession: fresh, SessionStreak: progress.SessionStreak}, nil
}

func (s *progressionService) load(ctx context.Context) (models.Progress, models.Stats, error) {
	progress, err := s.store.Progress(ctx)
	if err != nil {
		return progress, models.Stats{}, err
	}
	stats, err := s.store.Stats(ctx)
	return progress, stats, err
}

// save writes progress, stats and any extra records as one unit.
func (s *progressionService) save(ctx context.Context, progress models.Progress, stats models.Stats, also ...store.Record) error {
	records := append([]store.Record{
		{Kind: store.KindProgress, Value: progress},
		{Kind: store.KindStats, Value: stats},
	}, also...)
	return s.store.SaveAll(ctx, records...)
}
