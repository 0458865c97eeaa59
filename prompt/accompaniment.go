package prompt

import (
	"fmt"
	"strings"
)

// Defaults describes the generator settings the model should assume when the
// user does not mention them
type Defaults struct {
	TimeSignature string
	TempoBPM      float64
	DurationBeats float64
}

// AccompanimentPromptBuilder builds prompts for the progression interpreter
type AccompanimentPromptBuilder struct {
	defaults Defaults
}

// NewAccompanimentPromptBuilder creates a new prompt builder
func NewAccompanimentPromptBuilder(defaults Defaults) *AccompanimentPromptBuilder {
	return &AccompanimentPromptBuilder{defaults: defaults}
}

// BuildPrompt builds the complete system prompt
func (b *AccompanimentPromptBuilder) BuildPrompt() (string, error) {
	if b.defaults.TimeSignature == "" {
		return "", fmt.Errorf("prompt defaults: time signature is required")
	}

	sections := []string{
		b.getSystemInstructions(),
		b.getVocabularyReference(),
		b.getOutputFormatInstructions(),
	}

	return strings.Join(sections, "\n\n"), nil
}

func (b *AccompanimentPromptBuilder) getSystemInstructions() string {
	return `You are an accompaniment assistant. Musicians describe a chord progression in plain
language and you turn it into a precise list of chords that will be arpeggiated over a
metronome click track.

When analyzing user requests:
- Keep the chords in the order the user gives them
- Roman numerals are relative to the key the user names (e.g. "I-vi-IV-V in G" is G, Em, C, D)
- Lowercase numerals and chord names with "m" are minor, everything else is major
- Only include a seventh when the user asks for one or writes it in a chord name (Cmaj7, Dm7, G7)
- Never invent chords the user did not ask for`
}

func (b *AccompanimentPromptBuilder) getVocabularyReference() string {
	return fmt.Sprintf(`**Chord fields**:
- root: note name with optional accidental, e.g. C, F#, Bb
- mode: "major" or "minor" (the scale the chord is built from)
- includeSeventh: true to add a seventh on top of the triad
- seventh: quality of the seventh when includeSeventh is true
  - "diatonic": the seventh of the chord's own scale (Cmaj7 in major, Dm7 in minor)
  - "minor": ten semitones above the root (dominant G7, or Dm7)
  - "major": eleven semitones above the root (Cmaj7)
  - "augmented": twelve semitones above the root
- durationBeats: length of EACH arpeggio note in beats, not of the whole chord

**Chord name mapping**:
- C     → root C, mode major, includeSeventh false
- Am    → root A, mode minor, includeSeventh false
- G7    → root G, mode major, includeSeventh true, seventh minor
- Cmaj7 → root C, mode major, includeSeventh true, seventh major
- Dm7   → root D, mode minor, includeSeventh true, seventh minor

**Defaults** (use them when the user does not say otherwise):
- timeSignature: %s
- tempoBpm: %g
- durationBeats: %g`,
		b.defaults.TimeSignature, b.defaults.TempoBPM, b.defaults.DurationBeats)
}

func (b *AccompanimentPromptBuilder) getOutputFormatInstructions() string {
	return `**Output format**:
Answer with a single JSON object and nothing else:
{
  "chords": [{"root": "C", "mode": "major", "seventh": "diatonic", "includeSeventh": false, "durationBeats": 0.5}],
  "timeSignature": "4/4",
  "tempoBpm": 120,
  "explanation": "one sentence describing the progression"
}`
}
