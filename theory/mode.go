package theory

import (
	"fmt"
	"strings"
)

// Mode selects the interval pattern of a diatonic scale
type Mode int

const (
	Major Mode = iota
	Minor
)

// modeIntervals holds semitone offsets from the root for scale degrees 1-7.
// Minor is the natural minor (aeolian) pattern.
var modeIntervals = map[Mode][7]int{
	Major: {0, 2, 4, 5, 7, 9, 11},
	Minor: {0, 2, 3, 5, 7, 8, 10},
}

// Warning records an input that was not recognized and the value used instead.
// Warnings are never failures.
type Warning struct {
	Field    string `json:"field"`
	Input    string `json:"input"`
	Fallback string `json:"fallback"`
}

func (w Warning) String() string {
	return fmt.Sprintf("unsupported %s %q, defaulting to %s", w.Field, w.Input, w.Fallback)
}

// ParseMode maps text to a Mode. Anything other than "major" or "minor"
// (case-insensitive) falls back to Major and ok is false.
func ParseMode(s string) (mode Mode, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major", "maj", "ionian":
		return Major, true
	case "minor", "min", "aeolian":
		return Minor, true
	default:
		return Major, false
	}
}

// ParseModeWarn is ParseMode with the fallback reported as a Warning
func ParseModeWarn(s string) (Mode, *Warning) {
	mode, ok := ParseMode(s)
	if ok {
		return mode, nil
	}
	return mode, &Warning{Field: "mode", Input: s, Fallback: mode.String()}
}

func (m Mode) String() string {
	switch m {
	case Minor:
		return "minor"
	default:
		return "major"
	}
}

// Intervals returns the seven semitone offsets of the mode
func (m Mode) Intervals() [7]int {
	if iv, ok := modeIntervals[m]; ok {
		return iv
	}
	return modeIntervals[Major]
}
