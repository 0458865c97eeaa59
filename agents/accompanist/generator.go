package accompanist

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Conceptual-Machines/accomplay-go/metrics"
	"github.com/Conceptual-Machines/accomplay-go/models"
	"github.com/Conceptual-Machines/accomplay-go/theory"
	"github.com/Conceptual-Machines/accomplay-go/timeline"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

const defaultVelocity = 90

// Generator turns musical parameters into arrangements. It holds only
// immutable configuration and is safe for concurrent use.
type Generator struct {
	cfg     Config
	metrics *metrics.SentryMetrics
}

// NewGenerator creates a generator with the given defaults
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	log.Printf("🎵 ACCOMPANIST INITIALIZED: tempo=%.1f time=%s note=%.3f alignment=%s",
		cfg.TempoBPM, cfg.TimeSignature, cfg.NoteQuarterLength, cfg.Alignment)

	return &Generator{
		cfg:     cfg,
		metrics: metrics.NewSentryMetrics(),
	}, nil
}

// Config returns the generator defaults
func (g *Generator) Config() Config { return g.cfg }

// GenerateScale returns the scale ascending from the root and closing on the
// upper tonic, one note per NoteQuarterLength. Scales have no click track.
func (g *Generator) GenerateScale(ctx context.Context, req ScaleRequest) (*models.Arrangement, error) {
	transaction := sentry.StartTransaction(ctx, "accompanist.scale")
	defer transaction.Finish()
	ctx = transaction.Context()
	startTime := time.Now()

	log.Printf("🎵 SCALE REQUEST: root=%s mode=%s", req.Root, req.Mode)

	arrangement, err := g.buildScale(ctx, req)
	g.metrics.RecordGenerationDuration(ctx, time.Since(startTime), err == nil)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		log.Printf("❌ Scale generation failed: %v", err)
		return nil, err
	}

	transaction.SetTag("success", "true")
	g.metrics.RecordArrangement(ctx, arrangement)
	log.Printf("✅ Scale generated: %d notes", len(arrangement.Notes))
	return arrangement, nil
}

func (g *Generator) buildScale(ctx context.Context, req ScaleRequest) (*models.Arrangement, error) {
	ts, err := resolveTimeSignature(req.TimeSignature, g.cfg.TimeSignature)
	if err != nil {
		return nil, err
	}
	tempo, err := g.resolveTempo(req.TempoBPM)
	if err != nil {
		return nil, err
	}

	noteLength := g.cfg.NoteQuarterLength
	if req.NoteLength != nil {
		noteLength = *req.NoteLength
	}
	if math.IsNaN(noteLength) || math.IsInf(noteLength, 0) {
		return nil, fmt.Errorf("note length: %w", theory.ErrInvalidDuration)
	}
	if noteLength < 0 {
		return nil, fmt.Errorf("note length: %w", theory.ErrNegativeDuration)
	}

	scale, warnings, err := theory.BuildScale(req.Root, req.Mode)
	if err != nil {
		return nil, err
	}
	g.reportWarnings(ctx, warnings)

	pitches := append(scale.Pitches(), scale.Root().Transpose(12))

	arrangement := g.newArrangement(models.KindScale, ts, tempo)
	arrangement.Warnings = warnings

	offset := 0.0
	for _, p := range pitches {
		arrangement.Notes = append(arrangement.Notes, g.noteEvent(p, offset, noteLength))
		offset += noteLength
	}
	if err := timeline.CheckLength(offset); err != nil {
		return nil, err
	}
	arrangement.ContentLength = offset

	return arrangement, nil
}

// GenerateChord arranges a single chord as a one-chord progression
func (g *Generator) GenerateChord(ctx context.Context, req ChordRequest) (*models.Arrangement, error) {
	arrangement, err := g.GenerateProgression(ctx, ProgressionRequest{Chords: []ChordRequest{req}})
	if err != nil {
		return nil, err
	}
	arrangement.Kind = models.KindChord
	return arrangement, nil
}

// GenerateProgression arpeggiates each chord of the request in order and
// sizes a click track around the result
func (g *Generator) GenerateProgression(ctx context.Context, req ProgressionRequest) (*models.Arrangement, error) {
	transaction := sentry.StartTransaction(ctx, "accompanist.progression")
	defer transaction.Finish()
	ctx = transaction.Context()
	startTime := time.Now()

	transaction.SetTag("chord_count", fmt.Sprintf("%d", len(req.Chords)))
	log.Printf("🎵 PROGRESSION REQUEST: %d chords", len(req.Chords))

	arrangement, err := g.buildProgression(ctx, req)
	g.metrics.RecordGenerationDuration(ctx, time.Since(startTime), err == nil)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		log.Printf("❌ Progression generation failed: %v", err)
		return nil, err
	}

	transaction.SetTag("success", "true")
	g.metrics.RecordArrangement(ctx, arrangement)
	log.Printf("✅ Progression generated: %d notes, offset %.2f, %d metronome measures",
		len(arrangement.Notes), arrangement.ContentOffset, arrangement.Metronome.Measures)
	return arrangement, nil
}

func (g *Generator) buildProgression(ctx context.Context, req ProgressionRequest) (*models.Arrangement, error) {
	ts, err := resolveTimeSignature(req.TimeSignature, g.cfg.TimeSignature)
	if err != nil {
		return nil, err
	}
	tempo, err := g.resolveTempo(req.TempoBPM)
	if err != nil {
		return nil, err
	}
	if req.MetronomeMeasures < 0 {
		return nil, fmt.Errorf("metronome measures must not be negative, got %d", req.MetronomeMeasures)
	}
	measures := g.cfg.MetronomeMeasures
	if req.MetronomeMeasures > 0 {
		measures = req.MetronomeMeasures
	}

	var warnings []theory.Warning
	progression := timeline.NewProgression()
	defaultBeats := ts.ToBeats(g.cfg.NoteQuarterLength)
	for i, chordReq := range req.Chords {
		spec, chordWarnings, err := chordReq.chordSpec(defaultBeats)
		warnings = append(warnings, chordWarnings...)
		if err != nil {
			return nil, fmt.Errorf("chord %d: %w", i+1, err)
		}
		progression.Append(spec)
	}
	g.reportWarnings(ctx, warnings)

	arrangement, err := g.Arrange(ctx, progression, ts, tempo, measures)
	if err != nil {
		return nil, err
	}
	arrangement.Warnings = warnings
	return arrangement, nil
}

// Arrange lays out an already built progression. Each chord contributes its
// arpeggio arch, one note per AbsoluteDuration of the chord. The content
// length is computed from the notes alone, then the click track is sized
// from it and the content offset chosen by the configured Alignment.
func (g *Generator) Arrange(
	ctx context.Context,
	progression *timeline.Progression,
	ts timeline.TimeSignature,
	tempoBPM float64,
	explicitMeasures int,
) (*models.Arrangement, error) {
	span := sentry.StartSpan(ctx, "accompanist.arrange")
	defer span.Finish()

	type laidOutChord struct {
		spec    theory.ChordSpec
		tones   []theory.Pitch
		pattern []theory.Pitch
		noteQL  float64
	}

	chords := progression.Chords()
	laidOut := make([]laidOutChord, 0, len(chords))
	contentLength := 0.0
	for _, spec := range chords {
		tones := theory.ResolveChordTones(spec)
		pattern := theory.BuildPattern(tones)
		noteQL := timeline.AbsoluteDuration(spec, ts)
		laidOut = append(laidOut, laidOutChord{spec: spec, tones: tones, pattern: pattern, noteQL: noteQL})
		contentLength += float64(len(pattern)) * noteQL
	}

	metronome, err := timeline.NewMetronome(ts, tempoBPM, contentLength, explicitMeasures)
	if err != nil {
		return nil, err
	}

	arrangement := g.newArrangement(models.KindProgression, ts, tempoBPM)
	arrangement.ContentLength = contentLength
	arrangement.ContentOffset = g.contentOffset(metronome, contentLength)
	arrangement.Metronome = metronomeTrack(metronome)

	offset := arrangement.ContentOffset
	for _, c := range laidOut {
		summary := models.ChordSummary{
			Symbol:        theory.Symbol(c.spec),
			Tones:         pitchNames(c.tones),
			NoteCount:     len(c.pattern),
			Offset:        offset,
			QuarterLength: float64(len(c.pattern)) * c.noteQL,
		}
		for _, p := range c.pattern {
			arrangement.Notes = append(arrangement.Notes, g.noteEvent(p, offset, c.noteQL))
			offset += c.noteQL
		}
		arrangement.Chords = append(arrangement.Chords, summary)
	}

	span.SetData("content_length", contentLength)
	span.SetData("metronome_measures", metronome.Measures)
	span.Status = sentry.SpanStatusOK
	return arrangement, nil
}

func (g *Generator) contentOffset(metronome timeline.Metronome, contentLength float64) float64 {
	if g.cfg.Alignment == AlignLeadIn {
		leadIn := metronome.TimeSignature.MeasureQuarterLength()
		if leadIn > metronome.QuarterLength() {
			return 0
		}
		return leadIn
	}
	return timeline.AlignmentOffset(metronome.QuarterLength(), contentLength)
}

func (g *Generator) resolveTempo(tempo float64) (float64, error) {
	if tempo == 0 {
		return g.cfg.TempoBPM, nil
	}
	if tempo < 0 || math.IsNaN(tempo) || math.IsInf(tempo, 0) {
		return 0, fmt.Errorf("%w: %v", timeline.ErrInvalidTempo, tempo)
	}
	return tempo, nil
}

func (g *Generator) reportWarnings(ctx context.Context, warnings []theory.Warning) {
	for _, w := range warnings {
		log.Printf("⚠️  %s", w)
		g.metrics.RecordFallback(ctx, w)
	}
}

func (g *Generator) newArrangement(kind string, ts timeline.TimeSignature, tempo float64) *models.Arrangement {
	return &models.Arrangement{
		ID:   uuid.New().String(),
		Kind: kind,
		TimeSignature: models.TimeSignature{
			BeatsPerMeasure: ts.BeatsPerMeasure,
			BeatUnit:        ts.BeatUnit,
		},
		TempoBPM: tempo,
		Notes:    []models.NoteEvent{},
	}
}

func (g *Generator) noteEvent(p theory.Pitch, offset, quarterLength float64) models.NoteEvent {
	return models.NoteEvent{
		Pitch:          p.String(),
		MidiNoteNumber: p.MIDI(),
		Velocity:       g.cfg.Velocity,
		Offset:         offset,
		QuarterLength:  quarterLength,
	}
}

func metronomeTrack(m timeline.Metronome) *models.MetronomeTrack {
	clicks := m.Clicks()
	track := &models.MetronomeTrack{
		Measures:      m.Measures,
		QuarterLength: m.QuarterLength(),
		Seconds:       m.Seconds(),
		Clicks:        make([]models.ClickEvent, 0, len(clicks)),
	}
	for _, c := range clicks {
		track.Clicks = append(track.Clicks, models.ClickEvent{
			Pitch:          c.Pitch.String(),
			MidiNoteNumber: c.Pitch.MIDI(),
			Velocity:       c.Velocity,
			Accent:         c.Accent.String(),
			Offset:         c.Offset,
			QuarterLength:  c.QuarterLength,
		})
	}
	return track
}

func pitchNames(pitches []theory.Pitch) []string {
	names := make([]string, len(pitches))
	for i, p := range pitches {
		names[i] = p.String()
	}
	return names
}
