package accompanist

import (
	"fmt"
	"math"
	"strings"

	"github.com/Conceptual-Machines/accomplay-go/config"
	"github.com/Conceptual-Machines/accomplay-go/timeline"
)

// Alignment decides where the content track starts against the click track
type Alignment int

const (
	// AlignEnd starts content so that it ends together with the click track
	AlignEnd Alignment = iota
	// AlignLeadIn starts content after one measure of clicks
	AlignLeadIn
)

// ParseAlignment maps "end" / "lead-in" to an Alignment
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "end":
		return AlignEnd, nil
	case "lead-in", "leadin":
		return AlignLeadIn, nil
	default:
		return AlignEnd, fmt.Errorf("unknown alignment %q (allowed: end, lead-in)", s)
	}
}

func (a Alignment) String() string {
	if a == AlignLeadIn {
		return "lead-in"
	}
	return "end"
}

// Config holds the generator defaults. Requests may override tempo, time
// signature and metronome length.
type Config struct {
	TempoBPM          float64
	NoteQuarterLength float64
	TimeSignature     timeline.TimeSignature
	MetronomeMeasures int
	Alignment         Alignment
	Velocity          int
}

// DefaultConfig returns 120 BPM in 4/4 with half-quarter scale notes
func DefaultConfig() Config {
	return Config{
		TempoBPM:          config.DefaultTempoBPM,
		NoteQuarterLength: config.DefaultNoteQuarterLength,
		TimeSignature:     timeline.DefaultTimeSignature,
		Alignment:         AlignEnd,
		Velocity:          defaultVelocity,
	}
}

// ConfigFrom converts the process configuration into generator defaults.
// cfg is expected to start from config.Default, so a zero tempo or note
// length means it was set to zero and fails validation.
func ConfigFrom(cfg *config.Config) (Config, error) {
	out := DefaultConfig()
	if cfg == nil {
		return out, nil
	}

	out.TempoBPM = cfg.TempoBPM
	out.NoteQuarterLength = cfg.NoteQuarterLength
	if cfg.TimeSignature != "" {
		ts, err := timeline.ParseTimeSignature(cfg.TimeSignature)
		if err != nil {
			return Config{}, err
		}
		out.TimeSignature = ts
	}
	out.MetronomeMeasures = cfg.MetronomeMeasures

	alignment, err := ParseAlignment(cfg.Alignment)
	if err != nil {
		return Config{}, err
	}
	out.Alignment = alignment

	return out, out.Validate()
}

// Validate checks the structural constraints of the defaults
func (c Config) Validate() error {
	if c.TempoBPM <= 0 || math.IsNaN(c.TempoBPM) || math.IsInf(c.TempoBPM, 0) {
		return fmt.Errorf("%w: %v", timeline.ErrInvalidTempo, c.TempoBPM)
	}
	if c.NoteQuarterLength <= 0 || math.IsNaN(c.NoteQuarterLength) || math.IsInf(c.NoteQuarterLength, 0) {
		return fmt.Errorf("note quarter length must be positive, got %v", c.NoteQuarterLength)
	}
	if c.MetronomeMeasures < 0 {
		return fmt.Errorf("metronome measures must not be negative, got %d", c.MetronomeMeasures)
	}
	if c.Velocity < 1 || c.Velocity > 127 {
		return fmt.Errorf("velocity must be between 1 and 127, got %d", c.Velocity)
	}
	return c.TimeSignature.Validate()
}
