package services

import (
	"context"
	"math"
	"time"

	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/errors"
	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/scoring"
	"github.com/vytor/puzzlequest/internal/store"
)

const (
	reportWindow     = 7 * 24 * time.Hour
	xpPerWeeklyEntry = 25
)

// Improvement notes produced by WeeklyReport.
const (
	NoteConsistent    = "Consistent daily practice - keep it up!"
	NoteHighIQ        = "Excellent cognitive performance this week!"
	NoteGreatAccuracy = "Great accuracy - you're really getting the hang of this!"
	NoteReviewAnswers = "Try reviewing explanations to improve accuracy"
)

// ReportService answers read-only questions about the profile.
type ReportService interface {
	Progress(ctx context.Context) (*models.Progress, error)
	Stats(ctx context.Context) (*models.Stats, error)
	WeeklyReport(ctx context.Context) (*models.WeeklyReport, error)
	LevelProgress(ctx context.Context) (*models.LevelProgress, error)
	NextDifficulty(ctx context.Context) (models.Difficulty, error)
}

type reportService struct {
	store *store.Store
	clock clock.Clock
}

// NewReportService creates a new ReportService
func NewReportService(st *store.Store, c clock.Clock) ReportService {
	return &reportService{store: st, clock: c}
}

func (s *reportService) Progress(ctx context.Context) (*models.Progress, error) {
	p, err := s.store.Progress(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &p, nil
}

func (s *reportService) Stats(ctx context.Context) (*models.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &st, nil
}

func (s *reportService) WeeklyReport(ctx context.Context) (*models.WeeklyReport, error) {
	log := logger.FromContext(ctx)
	log.Debug("building weekly report")

	progress, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	from := now.Add(-reportWindow)
	var week []models.IQEntry
	for _, e := range progress.IQHistory {
		if !e.Date.Before(from) && !e.Date.After(now) {
			week = append(week, e)
		}
	}

	report := &models.WeeklyReport{
		PuzzlesSolved: len(week),
		AverageIQ:     progress.AverageIQ,
		Streak:        progress.Streak,
		Level:         progress.Level,
		XPGained:      len(week) * xpPerWeeklyEntry,
		Improvements:  []string{},
	}

	if len(week) >= 7 {
		report.Improvements = append(report.Improvements, NoteConsistent)
	}
	if len(week) > 0 {
		sum := 0
		for _, e := range week {
			sum += e.IQ
		}
		mean := float64(sum) / float64(len(week))
		report.AverageIQ = int(math.Round(mean))
		if mean > 120 {
			report.Improvements = append(report.Improvements, NoteHighIQ)
		}
	}
	if stats.TotalPuzzlesSolved > 0 {
		switch accuracy := stats.Accuracy(); {
		case accuracy > 0.8:
			report.Improvements = append(report.Improvements, NoteGreatAccuracy)
		case accuracy < 0.6:
			report.Improvements = append(report.Improvements, NoteReviewAnswers)
		}
	}

	return report, nil
}

func (s *reportService) LevelProgress(ctx context.Context) (*models.LevelProgress, error) {
	progress, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}
	lp := scoring.Progress(progress.Level, progress.TotalXP)
	return &lp, nil
}

func (s *reportService) NextDifficulty(ctx context.Context) (models.Difficulty, error) {
	progress, err := s.Progress(ctx)
	if err != nil {
		return "", err
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return "", err
	}
	return scoring.NextDifficulty(progress.Difficulty, *stats), nil
}
