package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "SENTRY_DSN", "ACCOMPLAY_MODEL",
		"ACCOMPLAY_TIME_SIGNATURE", "ACCOMPLAY_ALIGNMENT", "ACCOMPLAY_ADDR",
		"ACCOMPLAY_TEMPO", "ACCOMPLAY_NOTE_LENGTH", "ACCOMPLAY_METRONOME_MEASURES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultTempoBPM, cfg.TempoBPM)
	assert.Equal(t, DefaultNoteQuarterLength, cfg.NoteQuarterLength)
	assert.Equal(t, "4/4", cfg.TimeSignature)
	assert.Equal(t, "end", cfg.Alignment)
	assert.Equal(t, 0, cfg.MetronomeMeasures)
	assert.Equal(t, DefaultModel, cfg.Model)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ACCOMPLAY_TEMPO", "90")
	t.Setenv("ACCOMPLAY_NOTE_LENGTH", "0.25")
	t.Setenv("ACCOMPLAY_TIME_SIGNATURE", "6/8")
	t.Setenv("ACCOMPLAY_ALIGNMENT", "Lead-In")
	t.Setenv("ACCOMPLAY_METRONOME_MEASURES", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, 90.0, cfg.TempoBPM)
	assert.Equal(t, 0.25, cfg.NoteQuarterLength)
	assert.Equal(t, "6/8", cfg.TimeSignature)
	assert.Equal(t, "lead-in", cfg.Alignment)
	assert.Equal(t, 8, cfg.MetronomeMeasures)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("ACCOMPLAY_TEMPO", "fast")

	_, err := Load()
	assert.ErrorContains(t, err, "ACCOMPLAY_TEMPO")
}
