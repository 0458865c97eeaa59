package timeline

import "github.com/Conceptual-Machines/accomplay-go/theory"

// Progression is an append-only sequence of chords. TotalBeats is kept equal
// to the sum of the members' durations. A Progression has a single writer;
// readers get copies.
type Progression struct {
	chords     []theory.ChordSpec
	totalBeats float64
}

// NewProgression creates a progression from chords in order
func NewProgression(chords ...theory.ChordSpec) *Progression {
	p := &Progression{}
	for _, c := range chords {
		p.Append(c)
	}
	return p
}

// Append adds a chord to the end of the progression
func (p *Progression) Append(chord theory.ChordSpec) {
	p.chords = append(p.chords, chord)
	p.totalBeats += chord.DurationBeats()
}

// Chords returns a copy of the chords in order
func (p *Progression) Chords() []theory.ChordSpec {
	out := make([]theory.ChordSpec, len(p.chords))
	copy(out, p.chords)
	return out
}

// Len returns the number of chords
func (p *Progression) Len() int { return len(p.chords) }

// TotalBeats returns the summed duration of all chords in beats
func (p *Progression) TotalBeats() float64 { return p.totalBeats }

// TotalQuarterLength returns the summed duration in quarter lengths
func (p *Progression) TotalQuarterLength(ts TimeSignature) float64 {
	return ts.ToQuarterLength(p.totalBeats)
}

// AbsoluteDuration converts a chord's beat duration to quarter lengths under ts
func AbsoluteDuration(chord theory.ChordSpec, ts TimeSignature) float64 {
	return ts.ToQuarterLength(chord.DurationBeats())
}

// BeatsFromQuarterLength is the inverse of AbsoluteDuration
func BeatsFromQuarterLength(quarterLength float64, ts TimeSignature) float64 {
	return ts.ToBeats(quarterLength)
}
