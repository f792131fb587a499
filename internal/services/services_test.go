package services_test

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/events"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/repository"
	"github.com/vytor/puzzlequest/internal/repository/sqlite"
	"github.com/vytor/puzzlequest/internal/store"
	"github.com/vytor/puzzlequest/internal/testutil"
)

// start is a Sunday morning, local time.
var start = time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingNotifier) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) sources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Source)
	}
	return out
}

// storeSuite gives each test a fresh sqlite-backed store and a manual clock.
type storeSuite struct {
	suite.Suite
	db       *sql.DB
	store    *store.Store
	clock    *clock.Manual
	notifier *recordingNotifier
	ctx      context.Context
}

func (s *storeSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = store.New(sqlite.NewRecordRepository(s.db))
	s.clock = clock.NewManual(start)
	s.notifier = &recordingNotifier{}
	s.ctx = context.Background()
}

// failingRepository lets every update run, then fails the transaction
// when it touches failOn.
type failingRepository struct {
	repository.RecordRepository
	failOn string
	err    error
}

func (r *failingRepository) UpdateMany(ctx context.Context, kinds []string, fn func(map[string][]byte) (map[string][]byte, error)) error {
	return r.RecordRepository.UpdateMany(ctx, kinds, func(current map[string][]byte) (map[string][]byte, error) {
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		if slices.Contains(kinds, r.failOn) {
			return nil, r.err
		}
		return next, nil
	})
}

// failingStore shares the suite's database but fails writes to kind.
func (s *storeSuite) failingStore(kind string) *store.Store {
	return store.New(&failingRepository{
		RecordRepository: sqlite.NewRecordRepository(s.db),
		failOn:           kind,
		err:              errors.New("disk full"),
	})
}

func (s *storeSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *storeSuite) progress() models.Progress {
	p, err := s.store.Progress(s.ctx)
	s.Require().NoError(err)
	return p
}

func (s *storeSuite) stats() models.Stats {
	st, err := s.store.Stats(s.ctx)
	s.Require().NoError(err)
	return st
}

func (s *storeSuite) saveProgress(p models.Progress) {
	s.Require().NoError(s.store.Save(s.ctx, store.KindProgress, p))
}

func puzzle(id string, answer, points int, d models.Difficulty, t models.PuzzleType) models.Puzzle {
	return models.Puzzle{
		ID:            id,
		Question:      "q " + id,
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: answer,
		Explanation:   "because " + id,
		Type:          t,
		Difficulty:    d,
		Points:        points,
	}
}

func intPtr(i int) *int { return &i }
