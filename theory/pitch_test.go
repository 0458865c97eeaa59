package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePitch(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedMIDI int
		expectedStr  string
	}{
		{name: "bare letter defaults to octave 4", input: "C", expectedMIDI: 60, expectedStr: "C4"},
		{name: "sharp with octave", input: "F#3", expectedMIDI: 54, expectedStr: "F#3"},
		{name: "flat with b", input: "Bb5", expectedMIDI: 82, expectedStr: "A#5"},
		{name: "flat with dash", input: "E-4", expectedMIDI: 63, expectedStr: "D#4"},
		{name: "lower case letter", input: "a", expectedMIDI: 69, expectedStr: "A4"},
		{name: "double sharp", input: "c##2", expectedMIDI: 38, expectedStr: "D2"},
		{name: "C flat crosses octave down", input: "Cb4", expectedMIDI: 59, expectedStr: "B3"},
		{name: "B sharp crosses octave up", input: "B#3", expectedMIDI: 60, expectedStr: "C4"},
		{name: "dash flat without octave", input: "C-", expectedMIDI: 59, expectedStr: "B3"},
		{name: "surrounding whitespace", input: "  G2 ", expectedMIDI: 43, expectedStr: "G2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePitch(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedMIDI, p.MIDI())
			assert.Equal(t, tt.expectedStr, p.String())
		})
	}
}

func TestParsePitch_Invalid(t *testing.T) {
	for _, input := range []string{"", "H", "C#x", "Dq4", "7"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePitch(input)
			assert.ErrorIs(t, err, ErrInvalidNoteName)
		})
	}
}

func TestNoteName(t *testing.T) {
	name, err := NoteName("bb3")
	require.NoError(t, err)
	assert.Equal(t, "Bb", name)

	name, err = NoteName("F#")
	require.NoError(t, err)
	assert.Equal(t, "F#", name)

	_, err = NoteName("X")
	assert.Error(t, err)
}

func TestPitchTransposeAndCompare(t *testing.T) {
	c4 := MustParsePitch("C4")

	assert.Equal(t, MustParsePitch("C5"), c4.Transpose(12))
	assert.Equal(t, MustParsePitch("C3"), Transpose(c4, -12))
	assert.Equal(t, MustParsePitch("A#4"), c4.Transpose(10))
	assert.Equal(t, MustParsePitch("B3"), c4.Transpose(-1))

	assert.Equal(t, -1, Compare(c4, c4.Transpose(1)))
	assert.Equal(t, 1, Compare(c4, c4.Transpose(-1)))
	assert.Equal(t, 0, Compare(MustParsePitch("Db4"), MustParsePitch("C#4")))
	assert.True(t, MustParsePitch("Gb2").Equal(MustParsePitch("F#2")))
}

func TestPitchConstructors(t *testing.T) {
	assert.Equal(t, MustParsePitch("C4"), NewPitch(12, 3))
	assert.Equal(t, MustParsePitch("B2"), NewPitch(-1, 3))
	assert.Equal(t, MustParsePitch("A4"), FromMIDI(69))
	assert.Equal(t, 11, FromAbsolute(-1).Class())
	assert.Equal(t, -1, FromAbsolute(-1).Octave())
}
