package timeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTimeSignature is returned for non-positive or non power-of-two
// time signature values
var ErrInvalidTimeSignature = errors.New("invalid time signature")

// Upper bounds a standard MIDI time signature event can carry
const (
	MaxBeatsPerMeasure = 255
	MaxBeatUnit        = 128
)

// DefaultTimeSignature is common time
var DefaultTimeSignature = TimeSignature{BeatsPerMeasure: 4, BeatUnit: 4}

// TimeSignature is a meter such as 3/4 or 6/8
type TimeSignature struct {
	BeatsPerMeasure int `json:"beats_per_measure"` // number of beats per measure
	BeatUnit        int `json:"beat_unit"`         // note value that gets one beat
}

// NewTimeSignature validates and builds a time signature
func NewTimeSignature(beatsPerMeasure, beatUnit int) (TimeSignature, error) {
	ts := TimeSignature{BeatsPerMeasure: beatsPerMeasure, BeatUnit: beatUnit}
	if err := ts.Validate(); err != nil {
		return TimeSignature{}, err
	}
	return ts, nil
}

// ParseTimeSignature parses "beats/unit", e.g. "4/4" or "6/8"
func ParseTimeSignature(input string) (TimeSignature, error) {
	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) != 2 {
		return TimeSignature{}, fmt.Errorf("%w: expected beats/unit, got %q", ErrInvalidTimeSignature, input)
	}

	beats, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	unit, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return TimeSignature{}, fmt.Errorf("%w: invalid number in %q", ErrInvalidTimeSignature, input)
	}

	return NewTimeSignature(beats, unit)
}

// Validate checks that both values are positive, the beat unit is a power of
// two and both fit a MIDI time signature event
func (ts TimeSignature) Validate() error {
	if ts.BeatsPerMeasure <= 0 || ts.BeatsPerMeasure > MaxBeatsPerMeasure {
		return fmt.Errorf("%w: beats per measure must be between 1 and %d, got %d", ErrInvalidTimeSignature, MaxBeatsPerMeasure, ts.BeatsPerMeasure)
	}
	if ts.BeatUnit <= 0 || ts.BeatUnit > MaxBeatUnit || ts.BeatUnit&(ts.BeatUnit-1) != 0 {
		return fmt.Errorf("%w: beat unit must be a power of two up to %d, got %d", ErrInvalidTimeSignature, MaxBeatUnit, ts.BeatUnit)
	}
	return nil
}

// QuarterLengthPerBeat is the number of quarter notes in one beat (4/unit)
func (ts TimeSignature) QuarterLengthPerBeat() float64 {
	return 4.0 / float64(ts.BeatUnit)
}

// MeasureQuarterLength is the length of one measure in quarter notes
func (ts TimeSignature) MeasureQuarterLength() float64 {
	return float64(ts.BeatsPerMeasure) * ts.QuarterLengthPerBeat()
}

// ToQuarterLength converts a duration in beats to quarter lengths
func (ts TimeSignature) ToQuarterLength(beats float64) float64 {
	return beats * ts.QuarterLengthPerBeat()
}

// ToBeats converts quarter lengths back to beats
func (ts TimeSignature) ToBeats(quarterLength float64) float64 {
	return quarterLength / ts.QuarterLengthPerBeat()
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.BeatsPerMeasure, ts.BeatUnit)
}
