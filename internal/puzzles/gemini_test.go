package puzzles

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/models"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	if f.err != nil {
		return nil, f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: reply}}}}},
	}, nil
}

const goodReply = `{"question":"What is 6 x 7?","options":["42","36","48","54"],"correctAnswer":0,"explanation":"6 x 7 = 42"}`

func newTestGemini(gen generator) *GeminiSource {
	return newGeminiSource(gen, "test-model", clock.NewManual(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)))
}

func TestGeminiSource_GeneratesValidatedPuzzles(t *testing.T) {
	gen := &fakeGenerator{replies: []string{goodReply}}
	src := newTestGemini(gen)

	puzzles, err := src.Fetch(context.Background(), Request{Difficulty: models.DifficultyHard, UserID: "u1", Mode: models.ModeDaily})
	require.NoError(t, err)
	require.Len(t, puzzles, PuzzlesPerSet)
	assert.Len(t, gen.prompts, PuzzlesPerSet)

	types := map[models.PuzzleType]bool{}
	for i, p := range puzzles {
		assert.NoError(t, Validate(p))
		assert.Equal(t, "What is 6 x 7?", p.Question)
		assert.Equal(t, models.DifficultyHard, p.Difficulty)
		assert.Equal(t, 50, p.Points)
		assert.True(t, strings.HasPrefix(p.ID, "u1-2024-03-10-"), p.ID)
		assert.True(t, strings.HasSuffix(p.ID, string(rune('0'+i))), p.ID)
		types[p.Type] = true
	}
	assert.Len(t, types, PuzzlesPerSet, "types should not repeat")
}

func TestGeminiSource_SubstitutesInvalidPuzzles(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		goodReply,
		`{"question":"broken","options":["only one"],"correctAnswer":0,"explanation":""}`,
		`{"question":"out of range","options":["a","b"],"correctAnswer":5,"explanation":""}`,
	}}
	src := newTestGemini(gen)

	puzzles, err := src.Fetch(context.Background(), Request{Mode: models.ModeDaily})
	require.NoError(t, err)
	require.Len(t, puzzles, PuzzlesPerSet)

	assert.Equal(t, "What is 6 x 7?", puzzles[0].Question)
	for _, p := range puzzles[1:] {
		assert.NoError(t, Validate(p))
		assert.NotEqual(t, "broken", p.Question)
		assert.NotEqual(t, "out of range", p.Question)
	}
}

func TestGeminiSource_RateLimitServesBuiltInSet(t *testing.T) {
	gen := &fakeGenerator{err: genai.APIError{Code: 429, Message: "quota"}}
	src := newTestGemini(gen)

	puzzles, err := src.Fetch(context.Background(), Request{Mode: models.ModeDaily})
	require.NoError(t, err)
	assert.Len(t, gen.prompts, 1)

	want, err := src.fallback.Fetch(context.Background(), Request{Mode: models.ModeDaily})
	require.NoError(t, err)
	assert.Equal(t, want, puzzles)
}

func TestGeminiSource_TransportErrorSubstitutesEach(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection reset")}
	src := newTestGemini(gen)

	puzzles, err := src.Fetch(context.Background(), Request{Mode: models.ModePractice})
	require.NoError(t, err)
	assert.Len(t, gen.prompts, PuzzlesPerSet)
	for _, p := range puzzles {
		assert.NoError(t, Validate(p))
		assert.Contains(t, p.ID, "-practice-")
	}
}

func TestNewGeminiSource_RequiresKey(t *testing.T) {
	_, err := NewGeminiSource(context.Background(), "", "m", clock.System())
	assert.Error(t, err)
}

func TestGeminiSource_ConcurrentFetches(t *testing.T) {
	gen := &fakeGenerator{replies: []string{goodReply}}
	src := newTestGemini(gen)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			puzzles, err := src.Fetch(context.Background(), Request{Difficulty: models.DifficultyEasy, UserID: "u1", Mode: models.ModePractice})
			if err == nil && len(puzzles) != PuzzlesPerSet {
				err = errors.New("short puzzle set")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, gen.prompts, 8*PuzzlesPerSet)
}
