package puzzles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/models"
)

func TestStaticSource_EverySetIsValid(t *testing.T) {
	for set := range staticSets {
		puzzles := buildSet(set, Request{Difficulty: models.DifficultyHard, UserID: "u", Mode: models.ModeDaily}, "2024-03-10", set)
		require.Len(t, puzzles, PuzzlesPerSet)
		for _, p := range puzzles {
			assert.NoError(t, Validate(p))
			assert.Equal(t, 50, p.Points)
		}
	}
}

func TestStaticSource_DailyIsStableWithinADay(t *testing.T) {
	c := clock.NewManual(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	src := NewStaticSource(c)
	req := Request{Difficulty: models.DifficultyMedium, UserID: "u1", Mode: models.ModeDaily}

	morning, err := src.Fetch(context.Background(), req)
	require.NoError(t, err)
	c.Advance(10 * time.Hour)
	evening, err := src.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, morning, evening)

	c.Advance(24 * time.Hour)
	tomorrow, err := src.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, morning[0].Question, tomorrow[0].Question)
}

func TestStaticSource_IDsAreUniqueAndScoped(t *testing.T) {
	c := clock.NewManual(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
	src := NewStaticSource(c)

	a, err := src.Fetch(context.Background(), Request{UserID: "alice"})
	require.NoError(t, err)
	b, err := src.Fetch(context.Background(), Request{UserID: "bob"})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, p := range append(a, b...) {
		assert.False(t, seen[p.ID], p.ID)
		seen[p.ID] = true
		assert.Equal(t, models.DifficultyMedium, p.Difficulty)
	}
}
