package theory

import "strings"

// SeventhQuality selects how the seventh of a chord is derived
type SeventhQuality int

const (
	// SeventhUnspecified uses the diatonic seventh degree of the scale
	SeventhUnspecified SeventhQuality = iota
	SeventhMinor
	SeventhMajor
	// SeventhAugmented sits a full octave above the root
	SeventhAugmented
)

var seventhIntervals = map[SeventhQuality]int{
	SeventhMinor:     10,
	SeventhMajor:     11,
	SeventhAugmented: 12,
}

// ParseSeventh maps text to a SeventhQuality. Empty text is Unspecified;
// unrecognized text also falls back to Unspecified, with ok false.
func ParseSeventh(s string) (quality SeventhQuality, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unspecified", "diatonic":
		return SeventhUnspecified, true
	case "minor", "min", "m7", "dominant", "7":
		return SeventhMinor, true
	case "major", "maj", "maj7":
		return SeventhMajor, true
	case "augmented", "aug", "aug7":
		return SeventhAugmented, true
	default:
		return SeventhUnspecified, false
	}
}

// ParseSeventhWarn is ParseSeventh with the fallback reported as a Warning
func ParseSeventhWarn(s string) (SeventhQuality, *Warning) {
	q, ok := ParseSeventh(s)
	if ok {
		return q, nil
	}
	return q, &Warning{Field: "seventh", Input: s, Fallback: q.String()}
}

// Interval returns the fixed semitone distance above the root. ok is false
// for SeventhUnspecified, which has no fixed interval.
func (q SeventhQuality) Interval() (semitones int, ok bool) {
	semitones, ok = seventhIntervals[q]
	return semitones, ok
}

func (q SeventhQuality) String() string {
	switch q {
	case SeventhMinor:
		return "minor"
	case SeventhMajor:
		return "major"
	case SeventhAugmented:
		return "augmented"
	default:
		return "unspecified"
	}
}
