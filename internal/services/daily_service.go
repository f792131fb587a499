package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/errors"
	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/puzzles"
	"github.com/vytor/puzzlequest/internal/store"
	"golang.org/x/sync/singleflight"
)

// DailyService owns the lifecycle of the current puzzle set: fetching it,
// checking answers against it and closing the daily challenge.
type DailyService interface {
	Today(ctx context.Context) (*models.DailyPuzzleSet, error)
	Practice(ctx context.Context, difficulty models.Difficulty) (*models.DailyPuzzleSet, error)
	Submit(ctx context.Context, sub models.AnswerSubmission) (*models.DailySubmission, error)
	Close(ctx context.Context) (*models.DailyChallengeResult, error)
}

type dailyService struct {
	store       *store.Store
	source      puzzles.Source
	progression ProgressionService
	clock       clock.Clock

	mu    sync.Mutex
	group singleflight.Group
}

// NewDailyService creates a new DailyService
func NewDailyService(st *store.Store, src puzzles.Source, progression ProgressionService, c clock.Clock) DailyService {
	return &dailyService{store: st, source: src, progression: progression, clock: c}
}

func (s *dailyService) Today(ctx context.Context) (*models.DailyPuzzleSet, error) {
	log := logger.FromContext(ctx).WithPrefix("daily")
	today := clock.Today(s.clock)

	set, err := s.current(ctx, today)
	if err != nil || set != nil {
		return set, err
	}

	// Concurrent callers share one fetch.
	v, err, shared := s.group.Do("daily:"+today, func() (any, error) {
		// Other callers wait on this fetch, so one of them going away must
		// not cancel it.
		ctx := context.WithoutCancel(ctx)

		s.mu.Lock()
		existing, err := s.current(ctx, today)
		s.mu.Unlock()
		if err != nil || existing != nil {
			return existing, err
		}

		fetched, err := s.fetch(ctx, models.DifficultyMedium, models.ModeDaily)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, err := s.current(ctx, today); err != nil || existing != nil {
			return existing, err
		}
		return s.replace(ctx, today, models.ModeDaily, fetched)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("daily set ready: date=%s, shared=%t", today, shared)
	return v.(*models.DailyPuzzleSet), nil
}

func (s *dailyService) Practice(ctx context.Context, difficulty models.Difficulty) (*models.DailyPuzzleSet, error) {
	log := logger.FromContext(ctx).WithPrefix("daily")

	if difficulty == "" {
		settings, err := s.store.Settings(ctx)
		if err != nil {
			log.Error("failed to load settings: %v", err)
			return nil, errors.NewInternalError(err)
		}
		difficulty = settings.Difficulty
	}
	if !difficulty.Valid() {
		return nil, errors.NewValidationError("difficulty", fmt.Sprintf("unknown difficulty %q", difficulty))
	}

	fetched, err := s.fetch(ctx, difficulty, models.ModePractice)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	log.Info("starting practice set: difficulty=%s", difficulty)
	return s.replace(ctx, clock.Today(s.clock), models.ModePractice, fetched)
}

func (s *dailyService) Submit(ctx context.Context, sub models.AnswerSubmission) (*models.DailySubmission, error) {
	log := logger.FromContext(ctx).WithPrefix("daily")
	log.Debug("submitting answer: puzzle=%s", sub.PuzzleID)

	if sub.PuzzleID == "" {
		return nil, errors.NewValidationError("puzzleId", "is required")
	}
	if sub.Selected == nil {
		return nil, errors.NewValidationError("selected", "no answer selected")
	}
	if sub.TimeTaken < 0 {
		sub.TimeTaken = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := clock.Today(s.clock)
	set, err := s.current(ctx, today)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, errors.NewNotFoundError("puzzle set", today)
	}
	puzzle := set.Find(sub.PuzzleID)
	if puzzle == nil {
		return nil, errors.NewNotFoundError("puzzle", sub.PuzzleID)
	}
	selected := *sub.Selected
	if selected < 0 || selected >= len(puzzle.Options) {
		return nil, errors.NewValidationError("selected", fmt.Sprintf("must be between 0 and %d", len(puzzle.Options)-1))
	}
	if set.IsCompleted(puzzle.ID) {
		return nil, errors.NewConflictError(fmt.Sprintf("puzzle %s already answered", puzzle.ID))
	}

	// The completed entry is saved together with the score so a failed
	// write can never leave the answer counted but not marked.
	completed := append(set.Completed, models.CompletedPuzzle{
		PuzzleID:    puzzle.ID,
		Answer:      selected,
		IsCorrect:   selected == puzzle.CorrectAnswer,
		TimeTaken:   sub.TimeTaken,
		CompletedAt: s.clock.Now(),
	})
	mark := store.Record{Kind: store.KindDailySet, Value: map[string]any{"completed": completed}}
	result, err := s.progression.RecordAnswer(ctx, *puzzle, selected, sub.TimeTaken, mark)
	if err != nil {
		return nil, err
	}
	set.Completed = completed

	out := &models.DailySubmission{Result: *result, Remaining: len(set.Puzzles) - len(set.Completed)}
	if set.Mode == models.ModeDaily && set.AllCompleted() && set.ClosedAt == nil {
		challenge, err := s.close(ctx, set)
		if err != nil {
			return nil, err
		}
		out.Challenge = challenge
	}
	return out, nil
}

func (s *dailyService) Close(ctx context.Context) (*models.DailyChallengeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := clock.Today(s.clock)
	set, err := s.current(ctx, today)
	if err != nil {
		return nil, err
	}
	switch {
	case set == nil:
		return nil, errors.NewNotFoundError("puzzle set", today)
	case set.Mode != models.ModeDaily:
		return nil, errors.NewConflictError("practice sets do not count toward the daily challenge")
	case !set.AllCompleted():
		return nil, errors.NewConflictError(fmt.Sprintf("%d puzzles still unanswered", len(set.Puzzles)-len(set.Completed)))
	case set.ClosedAt != nil:
		return nil, errors.NewConflictError("daily challenge already completed today")
	}
	return s.close(ctx, set)
}

// close must be called with s.mu held.
func (s *dailyService) close(ctx context.Context, set *models.DailyPuzzleSet) (*models.DailyChallengeResult, error) {
	now := s.clock.Now()
	mark := store.Record{Kind: store.KindDailySet, Value: map[string]any{"closedAt": now}}
	challenge, err := s.progression.CloseDailyChallenge(ctx, mark)
	if err != nil {
		return nil, err
	}
	set.ClosedAt = &now
	return challenge, nil
}

func (s *dailyService) current(ctx context.Context, today string) (*models.DailyPuzzleSet, error) {
	set, err := s.store.DailySet(ctx, today)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("daily").Error("failed to load puzzle set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return set, nil
}

func (s *dailyService) fetch(ctx context.Context, difficulty models.Difficulty, mode models.PuzzleMode) ([]models.Puzzle, error) {
	log := logger.FromContext(ctx).WithPrefix("daily")

	userID := "guest"
	if u, err := s.store.User(ctx); err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	} else if u != nil {
		userID = u.ID
	}

	fetched, err := s.source.Fetch(ctx, puzzles.Request{Difficulty: difficulty, UserID: userID, Mode: mode})
	if err != nil {
		log.Error("puzzle source failed: %v", err)
		return nil, errors.NewUnavailableError("no puzzles available", err)
	}
	if len(fetched) == 0 {
		return nil, errors.NewUnavailableError("no puzzles available", nil)
	}
	for _, p := range fetched {
		if err := puzzles.Validate(p); err != nil {
			log.Error("puzzle source returned a malformed puzzle: %v", err)
			return nil, errors.NewUnavailableError("puzzle source returned a malformed puzzle", err)
		}
	}
	return fetched, nil
}

// replace must be called with s.mu held.
func (s *dailyService) replace(ctx context.Context, today string, mode models.PuzzleMode, fetched []models.Puzzle) (*models.DailyPuzzleSet, error) {
	set := &models.DailyPuzzleSet{
		Date:      today,
		Mode:      mode,
		Puzzles:   fetched,
		Completed: []models.CompletedPuzzle{},
		StartTime: s.clock.Now(),
	}
	if err := s.store.Save(ctx, store.KindDailySet, set); err != nil {
		logger.FromContext(ctx).WithPrefix("daily").Error("failed to store puzzle set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return set, nil
}
