package theory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	semitonesPerOctave = 12

	// DefaultOctave is used when a note name carries no octave ("C" -> C4)
	DefaultOctave = 4
)

// ErrInvalidNoteName is returned when a note name cannot be parsed
var ErrInvalidNoteName = errors.New("invalid note name")

// letterClasses maps natural note letters to pitch classes
var letterClasses = map[byte]int{
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'A': 9,
	'B': 11,
}

var classNames = [semitonesPerOctave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Pitch is an absolute pitch: a pitch class (0-11, C=0) in an octave.
// Pitches are ordered by their absolute semitone value.
type Pitch struct {
	class  int
	octave int
}

// NewPitch builds a pitch from a class and octave. Out-of-range classes
// carry into the octave, so NewPitch(12, 3) is C4.
func NewPitch(class, octave int) Pitch {
	return FromAbsolute(octave*semitonesPerOctave + class)
}

// FromAbsolute builds a pitch from its absolute semitone value (octave*12 + class)
func FromAbsolute(abs int) Pitch {
	octave := floorDiv(abs, semitonesPerOctave)
	return Pitch{class: abs - octave*semitonesPerOctave, octave: octave}
}

// FromMIDI builds a pitch from a MIDI note number (C4 = 60)
func FromMIDI(note int) Pitch {
	return FromAbsolute(note - semitonesPerOctave)
}

// ParsePitch parses a note name such as "C", "F#3", "Bb5", "E-4" or "c##2".
// Accidentals are '#' (sharp), 'b' or '-' (flat). A missing octave means
// DefaultOctave.
func ParsePitch(name string) (Pitch, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return Pitch{}, fmt.Errorf("%w: empty", ErrInvalidNoteName)
	}

	letter := strings.ToUpper(s[:1])[0]
	class, ok := letterClasses[letter]
	if !ok {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidNoteName, name)
	}

	i := 1
accidentals:
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			class++
		case 'b', '-':
			class--
		default:
			break accidentals
		}
	}

	oct := DefaultOctave
	if rest := s[i:]; rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return Pitch{}, fmt.Errorf("%w: bad octave in %q", ErrInvalidNoteName, name)
		}
		oct = n
	}

	return NewPitch(class, oct), nil
}

// MustParsePitch is like ParsePitch but panics on error. Intended for tests
// and package-level tables.
func MustParsePitch(name string) Pitch {
	p, err := ParsePitch(name)
	if err != nil {
		panic(err)
	}
	return p
}

// NoteName returns the spelling part of a note name, without octave, with the
// letter upper-cased ("bb3" -> "Bb")
func NoteName(name string) (string, error) {
	if _, err := ParsePitch(name); err != nil {
		return "", err
	}
	s := strings.TrimSpace(name)
	end := 1
	for end < len(s) && strings.ContainsRune("#b-", rune(s[end])) {
		end++
	}
	return strings.ToUpper(s[:1]) + s[1:end], nil
}

// Class returns the pitch class, 0 (C) to 11 (B)
func (p Pitch) Class() int { return p.class }

// Octave returns the octave number (C4 is middle C)
func (p Pitch) Octave() int { return p.octave }

// Absolute returns octave*12 + class, the ordering key for pitches
func (p Pitch) Absolute() int { return p.octave*semitonesPerOctave + p.class }

// MIDI returns the MIDI note number (C4 = 60)
func (p Pitch) MIDI() int { return p.Absolute() + semitonesPerOctave }

// Transpose returns the pitch moved by the given number of semitones
func (p Pitch) Transpose(semitones int) Pitch {
	return FromAbsolute(p.Absolute() + semitones)
}

// Equal reports whether two pitches sound the same
func (p Pitch) Equal(other Pitch) bool {
	return p.Absolute() == other.Absolute()
}

// String returns the sharp spelling with octave, e.g. "C#4"
func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", classNames[p.class], p.octave)
}

// Compare orders pitches by absolute semitone value: -1 if a < b, 0 if they
// are equal, +1 if a > b
func Compare(a, b Pitch) int {
	switch {
	case a.Absolute() < b.Absolute():
		return -1
	case a.Absolute() > b.Absolute():
		return 1
	default:
		return 0
	}
}

// Transpose moves p by the interval
func Transpose(p Pitch, semitones int) Pitch {
	return p.Transpose(semitones)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
