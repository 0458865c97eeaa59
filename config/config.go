package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults used when the environment does not override them
const (
	DefaultTempoBPM          = 120.0
	DefaultNoteQuarterLength = 0.5
	DefaultTimeSignature     = "4/4"
	DefaultAlignment         = "end"
	DefaultModel             = "gpt-5-mini"
	DefaultAddr              = ":8080"
)

// Config contains configuration for the accompaniment generator and its surfaces
type Config struct {
	OpenAIAPIKey string // OpenAI API key for the interpreter (optional)
	GeminiAPIKey string // Google Gemini API key (optional)
	Model        string // LLM model used by the interpreter
	SentryDSN    string // Sentry DSN (optional)

	TempoBPM          float64 // tempo in quarter notes per minute
	NoteQuarterLength float64 // note length for scale output
	TimeSignature     string  // e.g. "4/4"
	MetronomeMeasures int     // explicit click track length, 0 = estimate
	Alignment         string  // "end" or "lead-in"

	Addr string // HTTP listen address for `serve`
}

// Default returns a config with every generator default filled in
func Default() *Config {
	return &Config{
		Model:             DefaultModel,
		TempoBPM:          DefaultTempoBPM,
		NoteQuarterLength: DefaultNoteQuarterLength,
		TimeSignature:     DefaultTimeSignature,
		Alignment:         DefaultAlignment,
		Addr:              DefaultAddr,
	}
}

// Load reads the configuration from environment variables on top of Default
func Load() (*Config, error) {
	cfg := Default()

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.SentryDSN = os.Getenv("SENTRY_DSN")

	if v := os.Getenv("ACCOMPLAY_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ACCOMPLAY_TIME_SIGNATURE"); v != "" {
		cfg.TimeSignature = v
	}
	if v := os.Getenv("ACCOMPLAY_ALIGNMENT"); v != "" {
		cfg.Alignment = strings.ToLower(v)
	}
	if v := os.Getenv("ACCOMPLAY_ADDR"); v != "" {
		cfg.Addr = v
	}

	var err error
	if cfg.TempoBPM, err = floatEnv("ACCOMPLAY_TEMPO", cfg.TempoBPM); err != nil {
		return nil, err
	}
	if cfg.NoteQuarterLength, err = floatEnv("ACCOMPLAY_NOTE_LENGTH", cfg.NoteQuarterLength); err != nil {
		return nil, err
	}
	if cfg.MetronomeMeasures, err = intEnv("ACCOMPLAY_METRONOME_MEASURES", cfg.MetronomeMeasures); err != nil {
		return nil, err
	}

	return cfg, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
