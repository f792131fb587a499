// Package store keeps the profile's records (user, progress, stats, the
// current puzzle set and settings) as JSON documents on top of a
// RecordRepository.
//
// Reads never fail on bad content: an absent or unparsable record yields
// the kind's default. Saves are shallow merges over whatever is stored.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/repository"
)

// Record kinds, one stored document each.
const (
	KindUser     = "user"
	KindProgress = "progress"
	KindStats    = "stats"
	KindDailySet = "daily_puzzle_set"
	KindSettings = "settings"
)

// AllKinds lists every kind the store manages.
var AllKinds = []string{KindUser, KindProgress, KindStats, KindDailySet, KindSettings}

type Store struct {
	repo repository.RecordRepository
}

func New(repo repository.RecordRepository) *Store {
	return &Store{repo: repo}
}

// User returns the stored account, or nil when there is none.
func (s *Store) User(ctx context.Context) (*models.User, error) {
	u, found, err := load(ctx, s.repo, KindUser, func() models.User { return models.User{} })
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Store) Progress(ctx context.Context) (models.Progress, error) {
	p, _, err := load(ctx, s.repo, KindProgress, models.DefaultProgress)
	if p.IQHistory == nil {
		p.IQHistory = []models.IQEntry{}
	}
	if p.Achievements == nil {
		p.Achievements = []models.Achievement{}
	}
	return p, err
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	st, _, err := load(ctx, s.repo, KindStats, models.DefaultStats)
	if st.ByDifficulty == nil {
		st.ByDifficulty = map[models.Difficulty]models.Bucket{}
	}
	if st.ByType == nil {
		st.ByType = map[models.PuzzleType]models.Bucket{}
	}
	if st.DailyStats == nil {
		st.DailyStats = map[string]models.DayStats{}
	}
	return st, err
}

func (s *Store) Settings(ctx context.Context) (models.Settings, error) {
	st, _, err := load(ctx, s.repo, KindSettings, models.DefaultSettings)
	return st, err
}

// DailySet returns the stored puzzle set when it belongs to today; a set
// from any other day counts as absent.
func (s *Store) DailySet(ctx context.Context, today string) (*models.DailyPuzzleSet, error) {
	set, found, err := load(ctx, s.repo, KindDailySet, func() models.DailyPuzzleSet { return models.DailyPuzzleSet{} })
	if err != nil || !found {
		return nil, err
	}
	if set.Date != today {
		logger.FromContext(ctx).WithPrefix("store").Debug("discarding stale puzzle set from %s", set.Date)
		return nil, nil
	}
	if set.Mode == "" {
		set.Mode = models.ModeDaily
	}
	if set.Completed == nil {
		set.Completed = []models.CompletedPuzzle{}
	}
	return &set, nil
}

// Record pairs a kind with the fields to merge into it.
type Record struct {
	Kind  string
	Value any
}

// Save merges record's top-level fields over the stored record of kind
// (or the kind's default) and persists the result. record may be a model
// struct or a partial map.
func (s *Store) Save(ctx context.Context, kind string, record any) error {
	return s.SaveAll(ctx, Record{Kind: kind, Value: record})
}

// SaveAll merges every record like Save, in one transaction. Records for
// the same kind are applied in order.
func (s *Store) SaveAll(ctx context.Context, records ...Record) error {
	log := logger.FromContext(ctx).WithPrefix("store")
	if len(records) == 0 {
		return nil
	}

	var kinds []string
	updates := make([]map[string]json.RawMessage, len(records))
	for i, rec := range records {
		fields, err := toFields(rec.Value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", rec.Kind, err)
		}
		updates[i] = fields
		if !slices.Contains(kinds, rec.Kind) {
			kinds = append(kinds, rec.Kind)
		}
	}

	err := s.repo.UpdateMany(ctx, kinds, func(current map[string][]byte) (map[string][]byte, error) {
		merged := make(map[string]map[string]json.RawMessage, len(kinds))
		for _, kind := range kinds {
			base, err := baseFields(ctx, kind, current[kind])
			if err != nil {
				return nil, err
			}
			merged[kind] = base
		}
		for i, rec := range records {
			for k, v := range updates[i] {
				merged[rec.Kind][k] = v
			}
		}

		next := make(map[string][]byte, len(kinds))
		for kind, fields := range merged {
			body, err := json.Marshal(fields)
			if err != nil {
				return nil, err
			}
			next[kind] = body
		}
		return next, nil
	})
	if err != nil {
		log.Error("failed to save %v: %v", kinds, err)
		return err
	}
	log.Debug("saved %v", kinds)
	return nil
}

// Kinds lists the kinds that currently have a stored record.
func (s *Store) Kinds(ctx context.Context) ([]string, error) {
	return s.repo.Kinds(ctx)
}

// baseFields is what a save merges over: the stored object, or the kind's
// default when the record is absent, corrupt or empty.
func baseFields(ctx context.Context, kind string, current []byte) (map[string]json.RawMessage, error) {
	base := map[string]json.RawMessage{}
	if current != nil {
		if err := json.Unmarshal(current, &base); err != nil {
			logger.FromContext(ctx).WithPrefix("store").Warn("stored %s is corrupt, merging over defaults: %v", kind, err)
			base = map[string]json.RawMessage{}
		}
	}
	if len(base) == 0 {
		return defaultFields(kind)
	}
	return base, nil
}

// Clear removes the given kinds; with no arguments it removes every kind.
func (s *Store) Clear(ctx context.Context, kinds ...string) error {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	logger.FromContext(ctx).WithPrefix("store").Info("clearing %v", kinds)
	return s.repo.Delete(ctx, kinds...)
}

func load[T any](ctx context.Context, repo repository.RecordRepository, kind string, def func() T) (T, bool, error) {
	body, err := repo.Get(ctx, kind)
	if errors.Is(err, repository.ErrNotFound) {
		return def(), false, nil
	}
	if err != nil {
		return def(), false, err
	}

	out := def()
	if err := json.Unmarshal(body, &out); err != nil {
		logger.FromContext(ctx).WithPrefix("store").Warn("stored %s is corrupt, using defaults: %v", kind, err)
		return def(), false, nil
	}
	return out, true, nil
}

func toFields(record any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("record is not an object: %w", err)
	}
	return fields, nil
}

func defaultFields(kind string) (map[string]json.RawMessage, error) {
	switch kind {
	case KindProgress:
		return toFields(models.DefaultProgress())
	case KindStats:
		return toFields(models.DefaultStats())
	case KindSettings:
		return toFields(models.DefaultSettings())
	default:
		return map[string]json.RawMessage{}, nil
	}
}
