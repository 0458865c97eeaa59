package theory

import "fmt"

const scaleLength = 7

// Scale is a seven-note diatonic scale
type Scale struct {
	root Pitch
	mode Mode
}

// NewScale creates a scale on root
func NewScale(root Pitch, mode Mode) Scale {
	return Scale{root: root, mode: mode}
}

// BuildScale parses a root note name and mode text. An unsupported mode falls
// back to Major and is reported in the returned warnings; a bad note name is
// an error.
func BuildScale(rootName, modeText string) (Scale, []Warning, error) {
	root, err := ParsePitch(rootName)
	if err != nil {
		return Scale{}, nil, fmt.Errorf("scale root: %w", err)
	}

	var warnings []Warning
	mode, w := ParseModeWarn(modeText)
	if w != nil {
		warnings = append(warnings, *w)
	}

	return NewScale(root, mode), warnings, nil
}

// Root returns the scale's root pitch
func (s Scale) Root() Pitch { return s.root }

// Mode returns the scale's mode
func (s Scale) Mode() Mode { return s.mode }

// Pitches returns the seven scale tones ascending from the root
func (s Scale) Pitches() []Pitch {
	intervals := s.mode.Intervals()
	pitches := make([]Pitch, 0, scaleLength)
	for _, iv := range intervals {
		pitches = append(pitches, s.root.Transpose(iv))
	}
	return pitches
}

// PitchFromDegree resolves a 1-indexed scale degree against a reference
// pitch. The root pitch class is placed at its lowest representative at or
// above ref, and the degree is measured up from there. Degrees above 7 add
// octaves, degrees below 1 remove them (degree 8 is the root an octave up,
// degree 0 is the seventh an octave down).
func (s Scale) PitchFromDegree(degree int, ref Pitch) Pitch {
	anchor := s.anchor(ref)

	idx := degree - 1
	octaves := floorDiv(idx, scaleLength)
	step := idx - octaves*scaleLength

	intervals := s.mode.Intervals()
	return anchor.Transpose(intervals[step] + octaves*semitonesPerOctave)
}

// anchor returns the lowest pitch with the root's class that is >= ref
func (s Scale) anchor(ref Pitch) Pitch {
	diff := s.root.Class() - ref.Class()
	if diff < 0 {
		diff += semitonesPerOctave
	}
	return ref.Transpose(diff)
}

func (s Scale) String() string {
	return fmt.Sprintf("%s %s", classNames[s.root.Class()], s.mode)
}
