package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/puzzlequest/internal/clock"
	apperrors "github.com/vytor/puzzlequest/internal/errors"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/puzzles"
	"github.com/vytor/puzzlequest/internal/services"
	"github.com/vytor/puzzlequest/internal/store"
	"github.com/vytor/puzzlequest/internal/testutil/mocks"
)

type DailyServiceSuite struct {
	storeSuite
	source      *mocks.MockPuzzleSource
	progression services.ProgressionService
	svc         services.DailyService
}

func (s *DailyServiceSuite) SetupTest() {
	s.storeSuite.SetupTest()
	s.source = new(mocks.MockPuzzleSource)
	s.progression = services.NewProgressionService(s.store, s.clock, s.notifier, 0)
	s.svc = services.NewDailyService(s.store, s.source, s.progression, s.clock)
}

func dailyPuzzles() []models.Puzzle {
	return []models.Puzzle{
		puzzle("d1", 0, 25, models.DifficultyMedium, models.TypeLogic),
		puzzle("d2", 1, 25, models.DifficultyMedium, models.TypeMath),
		puzzle("d3", 2, 25, models.DifficultyMedium, models.TypeWord),
	}
}

func (s *DailyServiceSuite) expectDaily(times int) {
	s.source.On("Fetch", mock.Anything, puzzles.Request{Difficulty: models.DifficultyMedium, UserID: "guest", Mode: models.ModeDaily}).
		Return(dailyPuzzles(), nil).Times(times)
}

func (s *DailyServiceSuite) answer(id string, selected int) (*models.DailySubmission, error) {
	return s.svc.Submit(s.ctx, models.AnswerSubmission{PuzzleID: id, Selected: intPtr(selected), TimeTaken: 12})
}

func (s *DailyServiceSuite) TestToday_FetchesOncePerDay() {
	s.expectDaily(2)

	first, err := s.svc.Today(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(clock.Today(s.clock), first.Date)
	s.Assert().Equal(models.ModeDaily, first.Mode)
	s.Assert().Len(first.Puzzles, 3)
	s.Assert().Empty(first.Completed)

	again, err := s.svc.Today(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(first.Puzzles, again.Puzzles)

	s.clock.Advance(24 * time.Hour)
	next, err := s.svc.Today(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(clock.Today(s.clock), next.Date)
	s.source.AssertNumberOfCalls(s.T(), "Fetch", 2)
}

func (s *DailyServiceSuite) TestToday_ConcurrentCallersShareAFetch() {
	s.expectDaily(1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			set, err := s.svc.Today(s.ctx)
			s.Assert().NoError(err)
			s.Assert().Len(set.Puzzles, 3)
		}()
	}
	wg.Wait()
	s.source.AssertNumberOfCalls(s.T(), "Fetch", 1)
}

func (s *DailyServiceSuite) TestToday_SourceFailure() {
	s.source.On("Fetch", mock.Anything, mock.Anything).Return(nil, errors.New("offline"))

	_, err := s.svc.Today(s.ctx)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeUnavailable))
}

func (s *DailyServiceSuite) TestToday_MalformedPuzzleRejected() {
	bad := dailyPuzzles()
	bad[1].CorrectAnswer = 9
	s.source.On("Fetch", mock.Anything, mock.Anything).Return(bad, nil)

	_, err := s.svc.Today(s.ctx)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeUnavailable))
}

func (s *DailyServiceSuite) TestToday_UsesStoredUserID() {
	s.Require().NoError(s.store.Save(s.ctx, store.KindUser, models.User{ID: "user-42", Email: "a@b.c"}))
	s.source.On("Fetch", mock.Anything, puzzles.Request{Difficulty: models.DifficultyMedium, UserID: "user-42", Mode: models.ModeDaily}).
		Return(dailyPuzzles(), nil).Once()

	_, err := s.svc.Today(s.ctx)
	s.Require().NoError(err)
	s.source.AssertExpectations(s.T())
}

func (s *DailyServiceSuite) TestSubmit_Validation() {
	s.expectDaily(1)

	_, err := s.answer("d1", 0)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeNotFound), "no set yet")

	_, err = s.svc.Today(s.ctx)
	s.Require().NoError(err)

	_, err = s.svc.Submit(s.ctx, models.AnswerSubmission{Selected: intPtr(0)})
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeValidation), "missing id")

	_, err = s.svc.Submit(s.ctx, models.AnswerSubmission{PuzzleID: "d1"})
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeValidation), "missing selection")

	_, err = s.answer("nope", 0)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeNotFound), "unknown puzzle")

	_, err = s.answer("d1", 4)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeValidation), "out of range")

	_, err = s.answer("d1", 0)
	s.Require().NoError(err)
	_, err = s.answer("d1", 0)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeConflict), "answered twice")

	s.Assert().Equal(1, s.stats().TotalPuzzlesSolved)
}

func (s *DailyServiceSuite) TestSubmit_CompletingTheSetClosesTheChallenge() {
	s.expectDaily(1)
	_, err := s.svc.Today(s.ctx)
	s.Require().NoError(err)

	first, err := s.answer("d1", 0)
	s.Require().NoError(err)
	s.Assert().True(first.Result.IsCorrect)
	s.Assert().Equal(2, first.Remaining)
	s.Assert().Nil(first.Challenge)

	_, err = s.answer("d2", 0)
	s.Require().NoError(err)

	last, err := s.svc.Submit(s.ctx, models.AnswerSubmission{PuzzleID: "d3", Selected: intPtr(2), TimeTaken: -5})
	s.Require().NoError(err)
	s.Assert().Equal(0, last.Remaining)
	s.Require().NotNil(last.Challenge)
	s.Assert().Equal(1, last.Challenge.Streak)
	s.Assert().Equal(60, last.Challenge.BonusXP)

	p := s.progress()
	s.Assert().Equal(50+60, p.TotalXP)
	s.Assert().Equal(1, p.Streak)

	set, err := s.store.DailySet(s.ctx, clock.Today(s.clock))
	s.Require().NoError(err)
	s.Require().Len(set.Completed, 3)
	s.Assert().Equal(0.0, set.Completed[2].TimeTaken)
	s.Assert().False(set.Completed[1].IsCorrect)
	s.Assert().NotNil(set.ClosedAt)

	_, err = s.svc.Close(s.ctx)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeConflict))
	s.Assert().Equal([]string{"answer", "answer", "answer", "daily_challenge"}, s.notifier.sources())
}

func (s *DailyServiceSuite) TestSubmit_FailedWriteCanBeRetriedWithoutDoubleCounting() {
	s.expectDaily(1)
	_, err := s.svc.Today(s.ctx)
	s.Require().NoError(err)

	failing := s.failingStore(store.KindDailySet)
	progression := services.NewProgressionService(failing, s.clock, s.notifier, 0)
	broken := services.NewDailyService(failing, s.source, progression, s.clock)

	_, err = broken.Submit(s.ctx, models.AnswerSubmission{PuzzleID: "d1", Selected: intPtr(0), TimeTaken: 12})
	s.Require().Error(err)
	s.Assert().Equal(0, s.progress().TotalXP)
	s.Assert().Equal(0, s.stats().TotalPuzzlesSolved)

	res, err := s.answer("d1", 0)
	s.Require().NoError(err)
	s.Assert().Equal(2, res.Remaining)
	s.Assert().Equal(25, s.progress().TotalXP)
	s.Assert().Equal(1, s.stats().TotalPuzzlesSolved)
}

func (s *DailyServiceSuite) TestToday_CancelledCallerDoesNotAbortSharedFetch() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.source.On("Fetch", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(dailyPuzzles(), nil).Once()

	set, err := s.svc.Today(ctx)
	s.Require().NoError(err)
	s.Assert().Len(set.Puzzles, 3)

	stored, err := s.store.DailySet(s.ctx, clock.Today(s.clock))
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Assert().Equal(set.Puzzles, stored.Puzzles)
}

func (s *DailyServiceSuite) TestClose_RequiresCompletedDailySet() {
	_, err := s.svc.Close(s.ctx)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	s.expectDaily(1)
	_, err = s.svc.Today(s.ctx)
	s.Require().NoError(err)
	_, err = s.answer("d1", 0)
	s.Require().NoError(err)

	_, err = s.svc.Close(s.ctx)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeConflict))
}

func (s *DailyServiceSuite) TestPractice_ReplacesSetWithoutDailyBonus() {
	practice := dailyPuzzles()
	for i := range practice {
		practice[i].ID = "pr" + practice[i].ID
		practice[i].Difficulty = models.DifficultyHard
		practice[i].Points = 50
	}
	s.source.On("Fetch", mock.Anything, puzzles.Request{Difficulty: models.DifficultyHard, UserID: "guest", Mode: models.ModePractice}).
		Return(practice, nil).Once()

	set, err := s.svc.Practice(s.ctx, models.DifficultyHard)
	s.Require().NoError(err)
	s.Assert().Equal(models.ModePractice, set.Mode)

	today, err := s.svc.Today(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(models.ModePractice, today.Mode)

	for i, p := range practice {
		sub, err := s.answer(p.ID, p.CorrectAnswer)
		s.Require().NoError(err, "answer %d", i)
		s.Assert().Nil(sub.Challenge)
	}
	s.Assert().Equal(150, s.progress().TotalXP)
	s.Assert().Equal(0, s.progress().Streak)

	_, err = s.svc.Close(s.ctx)
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeConflict))
}

func (s *DailyServiceSuite) TestPractice_DefaultsToSettingsDifficulty() {
	easy := models.DifficultyEasy
	s.Require().NoError(s.store.Save(s.ctx, store.KindSettings, models.SettingsPatch{Difficulty: &easy}))
	s.source.On("Fetch", mock.Anything, puzzles.Request{Difficulty: models.DifficultyEasy, UserID: "guest", Mode: models.ModePractice}).
		Return(dailyPuzzles(), nil).Once()

	_, err := s.svc.Practice(s.ctx, "")
	s.Require().NoError(err)
	s.source.AssertExpectations(s.T())

	_, err = s.svc.Practice(s.ctx, "brutal")
	s.Assert().True(apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestDailyServiceSuite(t *testing.T) {
	suite.Run(t, new(DailyServiceSuite))
}
