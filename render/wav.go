package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/Conceptual-Machines/accomplay-go/models"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
)

const (
	// PreviewSampleRate is the sample rate of rendered previews
	PreviewSampleRate = beep.SampleRate(44100)

	attack  = 5 * time.Millisecond
	release = 30 * time.Millisecond

	clickLength    = 40 * time.Millisecond
	accentClickHz  = 1760.0
	regularClickHz = 1320.0

	contentGain = 0.5
	clickGain   = 0.35
)

// tone is a sound placed on the preview timeline
type tone struct {
	start    int // samples
	length   int // samples
	freq     float64
	velocity int
}

// sine generates a sine wave of fixed length
type sine struct {
	freq     float64
	phase    float64
	position int
	length   int
	rate     beep.SampleRate
}

func newSine(freq float64, length int, rate beep.SampleRate) beep.Streamer {
	return &sine{freq: freq, length: length, rate: rate}
}

func (s *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.length {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }

// envelope fades a stream in and out to avoid clicks at note boundaries
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, total int, rate beep.SampleRate) beep.Streamer {
	att := rate.N(attack)
	rel := rate.N(release)
	if att+rel > total {
		att = total / 4
		rel = total / 4
	}
	return &envelope{streamer: s, attack: att, release: rel, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = math.Max(0, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// Frequency returns the equal-tempered frequency of a MIDI note (A4 = 440 Hz)
func Frequency(midiNote int) float64 {
	return 440.0 * math.Pow(2, float64(midiNote-69)/12.0)
}

// WritePreviewWAV renders the arrangement as a 16-bit stereo WAV: content
// notes as sine tones, clicks as short high blips
func WritePreviewWAV(w io.WriteSeeker, arrangement *models.Arrangement) error {
	if arrangement == nil {
		return fmt.Errorf("no arrangement to render")
	}
	if arrangement.TempoBPM <= 0 {
		return fmt.Errorf("cannot render preview at tempo %v", arrangement.TempoBPM)
	}

	rate := PreviewSampleRate
	toSamples := func(quarterLength float64) int {
		seconds := quarterLength * 60.0 / arrangement.TempoBPM
		return rate.N(time.Duration(seconds * float64(time.Second)))
	}

	content := make([]tone, 0, len(arrangement.Notes))
	for _, n := range arrangement.Notes {
		content = append(content, tone{
			start:    toSamples(n.Offset),
			length:   toSamples(n.QuarterLength),
			freq:     Frequency(n.MidiNoteNumber),
			velocity: n.Velocity,
		})
	}

	var clicks []tone
	total := toSamples(arrangement.EndQuarterLength())
	if arrangement.Metronome != nil {
		for _, c := range arrangement.Metronome.Clicks {
			freq := regularClickHz
			if c.Accent == "strong" {
				freq = accentClickHz
			}
			clicks = append(clicks, tone{
				start:    toSamples(c.Offset),
				length:   rate.N(clickLength),
				freq:     freq,
				velocity: c.Velocity,
			})
		}
	}

	if total == 0 {
		return fmt.Errorf("arrangement is empty, nothing to render")
	}

	mixed := beep.Mix(
		gain(sequence(content, rate), contentGain),
		gain(sequence(clicks, rate), clickGain),
	)

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, beep.Take(total, mixed), format); err != nil {
		return fmt.Errorf("error encoding WAV: %w", err)
	}
	return nil
}

// WritePreviewWAVFile renders the arrangement preview to path
func WritePreviewWAVFile(path string, arrangement *models.Arrangement) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return WritePreviewWAV(f, arrangement)
}

// sequence lays tones out one after the other with silence in the gaps.
// Overlapping tones are shortened to the start of the next one.
func sequence(tones []tone, rate beep.SampleRate) beep.Streamer {
	sorted := make([]tone, len(tones))
	copy(sorted, tones)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	streamers := make([]beep.Streamer, 0, len(sorted)*2)
	cursor := 0
	for i, t := range sorted {
		if t.start > cursor {
			streamers = append(streamers, beep.Silence(t.start-cursor))
			cursor = t.start
		}
		length := t.length
		if i+1 < len(sorted) && cursor+length > sorted[i+1].start {
			length = sorted[i+1].start - cursor
		}
		if length <= 0 {
			continue
		}
		voice := newEnvelope(newSine(t.freq, length, rate), length, rate)
		streamers = append(streamers, gain(voice, float64(t.velocity)/127.0))
		cursor += length
	}
	// pad so the mix never ends early
	streamers = append(streamers, beep.Silence(-1))
	return beep.Seq(streamers...)
}

// gain scales a stream linearly, as effects.Volume works on a log scale
func gain(s beep.Streamer, g float64) beep.Streamer {
	if g <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(g), Silent: false}
}
