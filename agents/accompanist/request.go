package accompanist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/accomplay-go/theory"
	"github.com/Conceptual-Machines/accomplay-go/timeline"
)

// ErrEmptyChordToken is returned when a chord token has no root
var ErrEmptyChordToken = errors.New("empty chord token")

// ScaleRequest asks for a plain scale
type ScaleRequest struct {
	Root          string   `json:"root"`
	Mode          string   `json:"mode"`
	TimeSignature string   `json:"timeSignature,omitempty"`
	TempoBPM      float64  `json:"tempoBpm,omitempty"`
	NoteLength    *float64 `json:"noteLength,omitempty"` // quarter lengths
}

// ChordRequest is the textual form of one chord
type ChordRequest struct {
	Root           string   `json:"root"`
	Mode           string   `json:"mode"`
	Seventh        string   `json:"seventh,omitempty"`
	IncludeSeventh bool     `json:"includeSeventh"`
	DurationBeats  *float64 `json:"durationBeats,omitempty"` // per arpeggio note
}

// ProgressionRequest asks for arpeggiated chords over a click track. Zero
// values fall back to the generator's Config.
type ProgressionRequest struct {
	Chords            []ChordRequest `json:"chords"`
	TimeSignature     string         `json:"timeSignature,omitempty"`
	TempoBPM          float64        `json:"tempoBpm,omitempty"`
	MetronomeMeasures int            `json:"metronomeMeasures,omitempty"`
}

// ParseChordToken parses the CLI chord syntax ROOT[:MODE[:SEVENTH[:BEATS]]].
// SEVENTH "none" or an empty field leaves the seventh out; "diatonic" uses
// the scale's own seventh.
//
//	D:minor:minor:0.5   Dm7, half-beat notes
//	G:major:none:1      G triad
//	C                   C major triad, default duration
func ParseChordToken(token string) (ChordRequest, error) {
	fields := strings.Split(strings.TrimSpace(token), ":")
	if fields[0] == "" {
		return ChordRequest{}, ErrEmptyChordToken
	}
	if len(fields) > 4 {
		return ChordRequest{}, fmt.Errorf("chord token %q has %d fields, at most 4 allowed", token, len(fields))
	}

	req := ChordRequest{Root: fields[0], Mode: "major"}
	if len(fields) > 1 && fields[1] != "" {
		req.Mode = fields[1]
	}
	if len(fields) > 2 {
		seventh := strings.ToLower(strings.TrimSpace(fields[2]))
		if seventh != "" && seventh != "none" {
			req.IncludeSeventh = true
			req.Seventh = seventh
		}
	}
	if len(fields) > 3 && fields[3] != "" {
		beats, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return ChordRequest{}, fmt.Errorf("chord token %q: invalid beats: %w", token, err)
		}
		req.DurationBeats = &beats
	}

	return req, nil
}

// chordSpec converts a request into a validated ChordSpec. A missing
// duration is the configured note length expressed in beats of ts.
func (r ChordRequest) chordSpec(defaultBeats float64) (theory.ChordSpec, []theory.Warning, error) {
	beats := defaultBeats
	if r.DurationBeats != nil {
		beats = *r.DurationBeats
	}
	return theory.ParseChordSpec(r.Root, r.Mode, r.Seventh, r.IncludeSeventh, beats)
}

// resolveTimeSignature returns the request's time signature or the fallback
func resolveTimeSignature(text string, fallback timeline.TimeSignature) (timeline.TimeSignature, error) {
	if strings.TrimSpace(text) == "" {
		return fallback, nil
	}
	return timeline.ParseTimeSignature(text)
}
