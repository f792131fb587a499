package puzzles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/models"
	"google.golang.org/genai"
)

// ErrRateLimited means the generator refused for quota reasons.
var ErrRateLimited = errors.New("puzzle generator rate limited")

var typePrompts = map[models.PuzzleType][]string{
	models.TypeLogic: {
		"Create a logic puzzle with 3 statements where exactly 2 are true and 1 is false.",
		"Generate a number sequence puzzle where the user needs to find the next number in the pattern.",
		"Create a riddle that requires logical thinking to solve.",
	},
	models.TypeMath: {
		"Create a math word problem that requires multiple steps to solve.",
		"Generate a mathematical pattern recognition puzzle with numbers.",
		"Create a geometry-based brain teaser with visual elements described in text.",
	},
	models.TypeWord: {
		"Create a word puzzle where letters need to be rearranged to form a valid word.",
		"Generate an anagram puzzle with a theme and a hint about the category.",
		"Create a vocabulary puzzle that tests knowledge of synonyms or antonyms.",
	},
	models.TypePattern: {
		"Create a visual pattern puzzle described in text where the user needs to identify the next element.",
		"Generate a colour or shape pattern sequence puzzle that can be described textually.",
		"Create a pattern recognition puzzle with symbols or letters.",
	},
}

var difficultyHints = map[models.Difficulty]string{
	models.DifficultyEasy:   "Keep this simple and accessible for beginners.",
	models.DifficultyMedium: "Make this moderately challenging.",
	models.DifficultyHard:   "Make this quite difficult and complex.",
	models.DifficultyExpert: "Make this extremely challenging for puzzle experts.",
}

const systemInstruction = "You write original multiple-choice brain-training puzzles. " +
	"Answer with a single JSON object and nothing else. correctAnswer is the zero-based index of the right option."

// generator is the slice of the genai client this package uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSource generates puzzles with Gemini and substitutes built-in
// puzzles for any that fail to generate or validate.
type GeminiSource struct {
	gen      generator
	model    string
	fallback *StaticSource
	clock    clock.Clock

	// rand is not safe for concurrent use; mu guards it.
	mu   sync.Mutex
	rand *rand.Rand
}

func NewGeminiSource(ctx context.Context, apiKey, model string, c clock.Clock) (*GeminiSource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return newGeminiSource(client.Models, model, c), nil
}

func newGeminiSource(gen generator, model string, c clock.Clock) *GeminiSource {
	now := c.Now()
	return &GeminiSource{
		gen:      gen,
		model:    model,
		fallback: NewStaticSource(c),
		clock:    c,
		rand:     rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x9e3779b97f4a7c15)),
	}
}

func (g *GeminiSource) Fetch(ctx context.Context, req Request) ([]models.Puzzle, error) {
	req = normalize(req)
	log := logger.FromContext(ctx).WithPrefix("gemini")

	fallback, err := g.fallback.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	now := g.clock.Now()
	seed := fmt.Sprintf("%s-%s", req.UserID, clock.DayKey(now))
	if req.Mode == models.ModePractice {
		seed = fmt.Sprintf("%s-practice-%d-%d", req.UserID, now.UnixMilli(), g.intN(10000))
	}

	types := g.pickTypes()
	out := make([]models.Puzzle, 0, len(types))
	for i, typ := range types {
		id := fmt.Sprintf("%s-%d", seed, i)
		p, err := g.generate(ctx, typ, req.Difficulty, id)
		if errors.Is(err, ErrRateLimited) {
			log.Warn("generator rate limited, serving built-in set")
			return fallback, nil
		}
		if err != nil {
			log.Warn("generated puzzle %d rejected, substituting built-in: %v", i, err)
			p = fallback[i%len(fallback)]
			p.ID = id
		}
		out = append(out, p)
	}
	log.Debug("generated %d puzzles: mode=%s, difficulty=%s", len(out), req.Mode, req.Difficulty)
	return out, nil
}

func (g *GeminiSource) pickTypes() []models.PuzzleType {
	g.mu.Lock()
	perm := g.rand.Perm(len(models.PuzzleTypes))
	g.mu.Unlock()
	out := make([]models.PuzzleType, 0, PuzzlesPerSet)
	for _, idx := range perm[:PuzzlesPerSet] {
		out = append(out, models.PuzzleTypes[idx])
	}
	return out
}

func (g *GeminiSource) intN(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rand.IntN(n)
}

func (g *GeminiSource) generate(ctx context.Context, typ models.PuzzleType, d models.Difficulty, id string) (models.Puzzle, error) {
	prompts := typePrompts[typ]
	prompt := fmt.Sprintf("%s %s Provide 4 options. Make it original. Seed for uniqueness: %s",
		prompts[g.intN(len(prompts))], difficultyHints[d], id)

	temp := float32(0.7)
	config := &genai.GenerateContentConfig{
		Temperature:       &temp,
		MaxOutputTokens:   1024,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    geminiPuzzleSchema,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}}

	result, err := g.gen.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return models.Puzzle{}, mapGeminiError(err)
	}

	raw := []byte(result.Text())
	if err := validateGenerated(raw); err != nil {
		return models.Puzzle{}, err
	}
	var p models.Puzzle
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Puzzle{}, fmt.Errorf("decode puzzle: %w", err)
	}
	p.ID = id
	p.Type = typ
	p.Difficulty = d
	p.Points = PointsFor(d)
	if err := Validate(p); err != nil {
		return models.Puzzle{}, err
	}
	return p, nil
}

func mapGeminiError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("generate puzzle: %w", err)
}
