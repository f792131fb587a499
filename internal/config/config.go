package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vytor/puzzlequest/internal/logger"
)

// Puzzle source names accepted by PUZZLE_SOURCE.
const (
	SourceStatic = "static"
	SourceGemini = "gemini"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	PuzzleSource       string
	GeminiAPIKey       string
	GeminiModel        string
	SessionIdleMinutes int
	CORSOrigins        []string
	EventBuffer        int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:puzzlequest.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		PuzzleSource:       strings.ToLower(envOr("PUZZLE_SOURCE", SourceStatic)),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		SessionIdleMinutes: envIntOr("SESSION_IDLE_MINUTES", 30),
		CORSOrigins:        envListOr("CORS_ORIGINS", []string{"http://localhost:5173"}),
		EventBuffer:        envIntOr("EVENT_BUFFER", 16),
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if !logger.ValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	switch c.PuzzleSource {
	case SourceStatic:
	case SourceGemini:
		if c.GeminiAPIKey == "" {
			problems = append(problems, "GEMINI_API_KEY is required when PUZZLE_SOURCE=gemini")
		}
	default:
		problems = append(problems, fmt.Sprintf("PUZZLE_SOURCE %q must be %q or %q", c.PuzzleSource, SourceStatic, SourceGemini))
	}
	if c.SessionIdleMinutes <= 0 {
		problems = append(problems, "SESSION_IDLE_MINUTES must be positive")
	}
	if c.EventBuffer <= 0 {
		problems = append(problems, "EVENT_BUFFER must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
