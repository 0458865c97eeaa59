package theory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChordTones(t *testing.T) {
	tests := []struct {
		name          string
		root          string
		mode          Mode
		seventh       SeventhQuality
		include       bool
		expectedTones []string
	}{
		{
			name:          "C major triad",
			root:          "C",
			mode:          Major,
			expectedTones: []string{"C4", "E4", "G4"},
		},
		{
			name:          "C major diatonic seventh",
			root:          "C",
			mode:          Major,
			include:       true,
			expectedTones: []string{"C4", "E4", "G4", "B4"},
		},
		{
			name:          "D minor with minor seventh",
			root:          "D",
			mode:          Minor,
			seventh:       SeventhMinor,
			include:       true,
			expectedTones: []string{"D4", "F4", "A4", "C5"},
		},
		{
			name:          "A minor with major seventh",
			root:          "A3",
			mode:          Minor,
			seventh:       SeventhMajor,
			include:       true,
			expectedTones: []string{"A3", "C4", "E4", "G#4"},
		},
		{
			name:          "G major with augmented seventh",
			root:          "G3",
			mode:          Major,
			seventh:       SeventhAugmented,
			include:       true,
			expectedTones: []string{"G3", "B3", "D4", "G4"},
		},
		{
			name:          "seventh quality ignored without include",
			root:          "F",
			mode:          Major,
			seventh:       SeventhMinor,
			include:       false,
			expectedTones: []string{"F4", "A4", "C5"},
		},
		{
			name:          "E minor diatonic seventh",
			root:          "E",
			mode:          Minor,
			include:       true,
			expectedTones: []string{"E4", "G4", "B4", "D5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := NewChordSpec(tt.root, tt.mode, tt.seventh, tt.include, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTones, pitchStrings(ResolveChordTones(spec)))
		})
	}
}

func TestResolveChordTones_Deduplicates(t *testing.T) {
	tones := uniqueSorted([]Pitch{
		MustParsePitch("C5"),
		MustParsePitch("C4"),
		MustParsePitch("B#4"),
		MustParsePitch("E4"),
	})
	assert.Equal(t, []string{"C4", "E4", "C5"}, pitchStrings(tones))
}

func TestNewChordSpec_Validation(t *testing.T) {
	_, err := NewChordSpec("D", Minor, SeventhMinor, true, -0.5)
	assert.ErrorIs(t, err, ErrNegativeDuration)

	_, err = NewChordSpec("Q", Minor, SeventhMinor, true, 1)
	assert.ErrorIs(t, err, ErrInvalidNoteName)

	_, err = NewChordSpec("D", Minor, SeventhMinor, true, math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = NewChordSpec("D", Minor, SeventhMinor, true, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidDuration)

	spec, err := NewChordSpec("D", Minor, SeventhMinor, true, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, spec.DurationBeats())
}

func TestParseChordSpec(t *testing.T) {
	spec, warnings, err := ParseChordSpec("D", "minor", "minor", true, 0.5)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, Minor, spec.Mode())
	assert.Equal(t, SeventhMinor, spec.Seventh())
	assert.Equal(t, 0.5, spec.DurationBeats())
	assert.Equal(t, "D", spec.RootName())

	spec, warnings, err = ParseChordSpec("Bb", "lydian", "half-diminished", true, 1)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, "mode", warnings[0].Field)
	assert.Equal(t, "seventh", warnings[1].Field)
	assert.Equal(t, Major, spec.Mode())
	assert.Equal(t, SeventhUnspecified, spec.Seventh())
	assert.Equal(t, `unsupported seventh "half-diminished", defaulting to unspecified`, warnings[1].String())

	_, _, err = ParseChordSpec("", "major", "", false, 1)
	assert.Error(t, err)
}

func TestSymbol(t *testing.T) {
	tests := []struct {
		root     string
		mode     Mode
		seventh  SeventhQuality
		include  bool
		expected string
	}{
		{"C", Major, SeventhMajor, true, "Cmaj7"},
		{"G", Major, SeventhMinor, true, "G7"},
		{"A", Minor, SeventhMajor, true, "Am(maj7)"},
		{"D", Minor, SeventhMinor, true, "Dm7"},
		{"E", Major, SeventhAugmented, true, "Eaug7"},
		{"E", Minor, SeventhAugmented, true, "Eaug7"},
		{"F", Major, SeventhUnspecified, true, "Fmaj7"},
		{"B", Minor, SeventhUnspecified, true, "Bm7"},
		{"Bb3", Minor, SeventhMajor, false, "Bbm"},
		{"F#", Major, SeventhMinor, false, "F#"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			spec, err := NewChordSpec(tt.root, tt.mode, tt.seventh, tt.include, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Symbol(spec))
		})
	}
}

func TestParseSeventh(t *testing.T) {
	q, ok := ParseSeventh("")
	assert.True(t, ok)
	assert.Equal(t, SeventhUnspecified, q)

	q, ok = ParseSeventh("MAJOR")
	assert.True(t, ok)
	assert.Equal(t, SeventhMajor, q)

	q, ok = ParseSeventh("aug")
	assert.True(t, ok)
	assert.Equal(t, SeventhAugmented, q)

	q, ok = ParseSeventh("diminished")
	assert.False(t, ok)
	assert.Equal(t, SeventhUnspecified, q)

	iv, ok := SeventhAugmented.Interval()
	assert.True(t, ok)
	assert.Equal(t, 12, iv)

	_, ok = SeventhUnspecified.Interval()
	assert.False(t, ok)
}
