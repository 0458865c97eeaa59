package theory

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrNegativeDuration is returned for chord durations below zero
	ErrNegativeDuration = errors.New("duration must not be negative")
	// ErrInvalidDuration is returned for NaN or infinite durations
	ErrInvalidDuration = errors.New("duration must be a finite number")
)

// ChordSpec describes one chord instance. It is immutable once built with
// NewChordSpec.
type ChordSpec struct {
	root           Pitch
	rootName       string
	mode           Mode
	seventh        SeventhQuality
	includeSeventh bool
	durationBeats  float64
}

// NewChordSpec validates and builds a chord specification
func NewChordSpec(rootName string, mode Mode, seventh SeventhQuality, includeSeventh bool, durationBeats float64) (ChordSpec, error) {
	root, err := ParsePitch(rootName)
	if err != nil {
		return ChordSpec{}, fmt.Errorf("chord root: %w", err)
	}
	name, _ := NoteName(rootName)

	if math.IsNaN(durationBeats) || math.IsInf(durationBeats, 0) {
		return ChordSpec{}, fmt.Errorf("%w: %v", ErrInvalidDuration, durationBeats)
	}
	if durationBeats < 0 {
		return ChordSpec{}, fmt.Errorf("%w: %v", ErrNegativeDuration, durationBeats)
	}

	return ChordSpec{
		root:           root,
		rootName:       name,
		mode:           mode,
		seventh:        seventh,
		includeSeventh: includeSeventh,
		durationBeats:  durationBeats,
	}, nil
}

// ParseChordSpec builds a ChordSpec from text fields. Unsupported mode or
// seventh text falls back to a default and is reported as a warning.
func ParseChordSpec(rootName, modeText, seventhText string, includeSeventh bool, durationBeats float64) (ChordSpec, []Warning, error) {
	var warnings []Warning

	mode, w := ParseModeWarn(modeText)
	if w != nil {
		warnings = append(warnings, *w)
	}
	seventh, w := ParseSeventhWarn(seventhText)
	if w != nil {
		warnings = append(warnings, *w)
	}

	spec, err := NewChordSpec(rootName, mode, seventh, includeSeventh, durationBeats)
	if err != nil {
		return ChordSpec{}, warnings, err
	}
	return spec, warnings, nil
}

func (c ChordSpec) Root() Pitch { return c.root }
func (c ChordSpec) RootName() string { return c.rootName }
func (c ChordSpec) Mode() Mode { return c.mode }
func (c ChordSpec) Seventh() SeventhQuality { return c.seventh }
func (c ChordSpec) IncludeSeventh() bool { return c.includeSeventh }
func (c ChordSpec) DurationBeats() float64 { return c.durationBeats }
func (c ChordSpec) Scale() Scale { return NewScale(c.root, c.mode) }

// ResolveChordTones returns the root, third, fifth and (optionally) seventh
// of the chord in the root's octave, ascending and without duplicates.
func ResolveChordTones(spec ChordSpec) []Pitch {
	scale := spec.Scale()
	root := spec.Root()

	tones := []Pitch{
		scale.PitchFromDegree(1, root),
		scale.PitchFromDegree(3, root),
		scale.PitchFromDegree(5, root),
	}

	if spec.IncludeSeventh() {
		if iv, ok := spec.Seventh().Interval(); ok {
			tones = append(tones, root.Transpose(iv))
		} else {
			tones = append(tones, scale.PitchFromDegree(7, root))
		}
	}

	return uniqueSorted(tones)
}

// Symbol returns a display chord symbol such as "Dm7", "Cmaj7" or "Eaug7"
func Symbol(spec ChordSpec) string {
	return spec.RootName() + symbolSuffix(spec.Mode(), spec.Seventh(), spec.IncludeSeventh())
}

func symbolSuffix(mode Mode, seventh SeventhQuality, include bool) string {
	if !include {
		if mode == Minor {
			return "m"
		}
		return ""
	}

	if seventh == SeventhUnspecified {
		// diatonic seventh: major scale has a major 7th, natural minor a minor 7th
		if mode == Minor {
			seventh = SeventhMinor
		} else {
			seventh = SeventhMajor
		}
	}

	switch {
	case seventh == SeventhAugmented:
		return "aug7"
	case mode == Major && seventh == SeventhMajor:
		return "maj7"
	case mode == Major && seventh == SeventhMinor:
		return "7"
	case mode == Minor && seventh == SeventhMajor:
		return "m(maj7)"
	default:
		return "m7"
	}
}

// uniqueSorted dedups pitches by absolute value and sorts them ascending
func uniqueSorted(pitches []Pitch) []Pitch {
	seen := make(map[int]bool, len(pitches))
	out := make([]Pitch, 0, len(pitches))
	for _, p := range pitches {
		if seen[p.Absolute()] {
			continue
		}
		seen[p.Absolute()] = true
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}
