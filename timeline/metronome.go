package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/Conceptual-Machines/accomplay-go/theory"
)

const (
	// LeadMeasures is the margin added on top of the measures the content needs
	LeadMeasures = 2

	AccentVelocity  = 110
	RegularVelocity = 70

	// MaxQuarterLength bounds the content a click track is sized for
	MaxQuarterLength = 1 << 16
	// MaxClicks bounds the number of clicks in one track
	MaxClicks = 1 << 18

	// General MIDI percussion: high and low wood block
	accentClickNote  = 76
	regularClickNote = 77
)

var (
	// ErrInvalidTempo is returned for tempos that are not positive and finite
	ErrInvalidTempo = errors.New("tempo must be positive")
	// ErrTooLong is returned when content or a click track exceeds the limits
	ErrTooLong = errors.New("arrangement too long")
)

// CheckLength rejects content lengths that are not finite or exceed MaxQuarterLength
func CheckLength(contentQuarterLength float64) error {
	if math.IsNaN(contentQuarterLength) || contentQuarterLength > MaxQuarterLength {
		return fmt.Errorf("%w: content of %v quarter lengths (max %d)", ErrTooLong, contentQuarterLength, MaxQuarterLength)
	}
	return nil
}

// Accent is the loudness level of a click
type Accent int

const (
	AccentRegular Accent = iota
	AccentStrong
)

func (a Accent) String() string {
	if a == AccentStrong {
		return "strong"
	}
	return "regular"
}

// Click is one metronome beat
type Click struct {
	Pitch         theory.Pitch
	Offset        float64 // quarter lengths from the start of the click track
	QuarterLength float64
	Accent        Accent
	Velocity      int
}

// Metronome is a click track sized for some content
type Metronome struct {
	TimeSignature TimeSignature
	TempoBPM      float64
	Measures      int
}

// EstimateMeasures returns the number of measures needed to cover the content
// plus LeadMeasures. Negative content is treated as empty.
func EstimateMeasures(contentQuarterLength float64, ts TimeSignature) int {
	if contentQuarterLength < 0 {
		contentQuarterLength = 0
	}
	return int(math.Ceil(contentQuarterLength/ts.MeasureQuarterLength())) + LeadMeasures
}

// AlignmentOffset is where content should start so that it ends together with
// the click track. It is zero when the click track is not longer than the content.
func AlignmentOffset(metronomeQuarterLength, contentQuarterLength float64) float64 {
	if metronomeQuarterLength > contentQuarterLength {
		return metronomeQuarterLength - contentQuarterLength
	}
	return 0
}

// NewMetronome sizes a click track for contentQuarterLength. A positive
// explicitMeasures overrides the estimate. Tracks longer than MaxClicks
// clicks fail with ErrTooLong.
func NewMetronome(ts TimeSignature, tempoBPM, contentQuarterLength float64, explicitMeasures int) (Metronome, error) {
	if err := ts.Validate(); err != nil {
		return Metronome{}, err
	}
	if tempoBPM <= 0 || math.IsNaN(tempoBPM) || math.IsInf(tempoBPM, 0) {
		return Metronome{}, fmt.Errorf("%w: %v", ErrInvalidTempo, tempoBPM)
	}
	if err := CheckLength(contentQuarterLength); err != nil {
		return Metronome{}, err
	}

	measures := explicitMeasures
	if measures <= 0 {
		measures = EstimateMeasures(contentQuarterLength, ts)
	}
	if measures > MaxClicks/ts.BeatsPerMeasure {
		return Metronome{}, fmt.Errorf("%w: %d measures of %s (max %d clicks)", ErrTooLong, measures, ts, MaxClicks)
	}

	return Metronome{TimeSignature: ts, TempoBPM: tempoBPM, Measures: measures}, nil
}

// QuarterLength is the total length of the click track
func (m Metronome) QuarterLength() float64 {
	return float64(m.Measures) * m.TimeSignature.MeasureQuarterLength()
}

// Seconds is the playing time of the click track, with the tempo counted in
// quarter notes per minute
func (m Metronome) Seconds() float64 {
	return m.QuarterLength() * 60.0 / m.TempoBPM
}

// Clicks returns one click per beat. The first beat of every measure is accented.
func (m Metronome) Clicks() []Click {
	beatQL := m.TimeSignature.QuarterLengthPerBeat()
	clicks := make([]Click, 0, m.Measures*m.TimeSignature.BeatsPerMeasure)

	offset := 0.0
	for measure := 0; measure < m.Measures; measure++ {
		for beat := 0; beat < m.TimeSignature.BeatsPerMeasure; beat++ {
			click := Click{
				Pitch:         theory.FromMIDI(regularClickNote),
				Offset:        offset,
				QuarterLength: beatQL,
				Accent:        AccentRegular,
				Velocity:      RegularVelocity,
			}
			if beat == 0 {
				click.Pitch = theory.FromMIDI(accentClickNote)
				click.Accent = AccentStrong
				click.Velocity = AccentVelocity
			}
			clicks = append(clicks, click)
			offset += beatQL
		}
	}
	return clicks
}
