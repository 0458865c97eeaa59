package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	builder := NewAccompanimentPromptBuilder(Defaults{TimeSignature: "3/4", TempoBPM: 96, DurationBeats: 0.5})

	text, err := builder.BuildPrompt()
	require.NoError(t, err)

	assert.Contains(t, text, "timeSignature: 3/4")
	assert.Contains(t, text, "tempoBpm: 96")
	assert.Contains(t, text, "durationBeats: 0.5")
	assert.Contains(t, text, `"explanation"`)
}

func TestBuildPrompt_MissingTimeSignature(t *testing.T) {
	_, err := NewAccompanimentPromptBuilder(Defaults{}).BuildPrompt()
	assert.Error(t, err)
}
