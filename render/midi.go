package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/Conceptual-Machines/accomplay-go/models"
	"github.com/Conceptual-Machines/accomplay-go/timeline"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// TicksPerQuarter is the resolution of written files
	TicksPerQuarter = 960

	contentChannel = 0
	// General MIDI percussion channel (channel 10, zero-based 9)
	clickChannel = 9
)

// noteSpan is one note in absolute ticks
type noteSpan struct {
	key      uint8
	velocity uint8
	start    uint32
	end      uint32
}

// midiEvent is a note on/off at an absolute tick
type midiEvent struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// WriteMIDI writes the arrangement as a standard MIDI file: a tempo track,
// the content track on channel 1 and, when present, the click track on the
// percussion channel
func WriteMIDI(w io.Writer, arrangement *models.Arrangement) error {
	if arrangement == nil {
		return fmt.Errorf("no arrangement to write")
	}
	meter := timeline.TimeSignature{
		BeatsPerMeasure: arrangement.TimeSignature.BeatsPerMeasure,
		BeatUnit:        arrangement.TimeSignature.BeatUnit,
	}
	if err := meter.Validate(); err != nil {
		return err
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	// Track 0: Tempo track
	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(uint8(meter.BeatsPerMeasure), uint8(meter.BeatUnit))) //nolint:gosec // bounded by Validate
	track0.Add(0, smf.MetaTempo(arrangement.TempoBPM))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}

	spans := make([]noteSpan, 0, len(arrangement.Notes))
	for _, n := range arrangement.Notes {
		spans = append(spans, newSpan(n.MidiNoteNumber, n.Velocity, n.Offset, n.QuarterLength))
	}
	if err := sm.Add(buildTrack("Content", contentChannel, spans)); err != nil {
		return fmt.Errorf("error adding content track: %w", err)
	}

	if arrangement.Metronome != nil {
		clicks := make([]noteSpan, 0, len(arrangement.Metronome.Clicks))
		for _, c := range arrangement.Metronome.Clicks {
			clicks = append(clicks, newSpan(c.MidiNoteNumber, c.Velocity, c.Offset, c.QuarterLength))
		}
		if err := sm.Add(buildTrack("Metronome", clickChannel, clicks)); err != nil {
			return fmt.Errorf("error adding metronome track: %w", err)
		}
	}

	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}

// WriteMIDIFile writes the arrangement to path
func WriteMIDIFile(path string, arrangement *models.Arrangement) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return WriteMIDI(f, arrangement)
}

func newSpan(key, velocity int, offset, quarterLength float64) noteSpan {
	start := toTicks(offset)
	end := toTicks(offset + quarterLength)
	if end <= start {
		end = start + 1
	}
	return noteSpan{
		key:      uint8(clamp(key, 0, 127)),      //nolint:gosec // clamped
		velocity: uint8(clamp(velocity, 1, 127)), //nolint:gosec // clamped
		start:    start,
		end:      end,
	}
}

func buildTrack(name string, channel uint8, spans []noteSpan) smf.Track {
	events := make([]midiEvent, 0, len(spans)*2)
	for _, s := range spans {
		events = append(events,
			midiEvent{tick: s.start, msg: midi.NoteOn(channel, s.key, s.velocity)},
			midiEvent{tick: s.end, off: true, msg: midi.NoteOff(channel, s.key)},
		)
	}

	// note offs first so back-to-back notes on the same key do not cut each other
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	var last uint32
	for _, e := range events {
		track.Add(e.tick-last, e.msg)
		last = e.tick
	}
	track.Close(0)
	return track
}

func toTicks(quarterLength float64) uint32 {
	if quarterLength <= 0 {
		return 0
	}
	return uint32(math.Round(quarterLength * TicksPerQuarter))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
