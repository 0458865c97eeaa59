package models

import "github.com/Conceptual-Machines/accomplay-go/theory"

// Arrangement kinds
const (
	KindScale       = "scale"
	KindChord       = "chord"
	KindProgression = "progression"
)

// NoteEvent is one content note handed to a renderer. Offsets and durations
// are in quarter lengths.
type NoteEvent struct {
	Pitch          string  `json:"pitch"`
	MidiNoteNumber int     `json:"midiNoteNumber"`
	Velocity       int     `json:"velocity"`
	Offset         float64 `json:"offset"`
	QuarterLength  float64 `json:"quarterLength"`
}

// ClickEvent is one metronome beat
type ClickEvent struct {
	Pitch          string  `json:"pitch"`
	MidiNoteNumber int     `json:"midiNoteNumber"`
	Velocity       int     `json:"velocity"`
	Accent         string  `json:"accent"`
	Offset         float64 `json:"offset"`
	QuarterLength  float64 `json:"quarterLength"`
}

// ChordSummary describes one chord of a progression inside the content track
type ChordSummary struct {
	Symbol        string   `json:"symbol"`
	Tones         []string `json:"tones"`
	NoteCount     int      `json:"noteCount"`
	Offset        float64  `json:"offset"`
	QuarterLength float64  `json:"quarterLength"`
}

// MetronomeTrack is the click track and its sizing
type MetronomeTrack struct {
	Measures      int          `json:"measures"`
	QuarterLength float64      `json:"quarterLength"`
	Seconds       float64      `json:"seconds"`
	Clicks        []ClickEvent `json:"clicks"`
}

// TimeSignature mirrors timeline.TimeSignature for serialization
type TimeSignature struct {
	BeatsPerMeasure int `json:"beatsPerMeasure"`
	BeatUnit        int `json:"beatUnit"`
}

// Arrangement is the complete output for a renderer: the content track, where
// it starts, and (for chords and progressions) the click track.
type Arrangement struct {
	ID            string           `json:"id"`
	Kind          string           `json:"kind"`
	TimeSignature TimeSignature    `json:"timeSignature"`
	TempoBPM      float64          `json:"tempoBpm"`
	ContentOffset float64          `json:"contentOffset"`
	ContentLength float64          `json:"contentLength"`
	Notes         []NoteEvent      `json:"notes"`
	Chords        []ChordSummary   `json:"chords,omitempty"`
	Metronome     *MetronomeTrack  `json:"metronome,omitempty"`
	Warnings      []theory.Warning `json:"warnings,omitempty"`
}

// EndQuarterLength returns where the last track ends
func (a *Arrangement) EndQuarterLength() float64 {
	end := a.ContentOffset + a.ContentLength
	if a.Metronome != nil && a.Metronome.QuarterLength > end {
		end = a.Metronome.QuarterLength
	}
	return end
}
