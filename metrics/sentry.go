package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/Conceptual-Machines/accomplay-go/models"
	"github.com/Conceptual-Machines/accomplay-go/theory"
	"github.com/getsentry/sentry-go"
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordArrangement records the shape of a generated arrangement
func (m *SentryMetrics) RecordArrangement(ctx context.Context, arrangement *models.Arrangement) {
	if !m.enabled || arrangement == nil {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("arrangement.kind", arrangement.Kind)
		transaction.SetData("arrangement.notes", len(arrangement.Notes))
		transaction.SetData("arrangement.chords", len(arrangement.Chords))
	}

	span := sentry.StartSpan(ctx, "arrangement.summary")
	defer span.Finish()

	span.SetTag("kind", arrangement.Kind)
	span.SetTag("time_signature", fmt.Sprintf("%d/%d", arrangement.TimeSignature.BeatsPerMeasure, arrangement.TimeSignature.BeatUnit))
	span.SetData("note_count", len(arrangement.Notes))
	span.SetData("chord_count", len(arrangement.Chords))
	span.SetData("content_offset", arrangement.ContentOffset)
	span.SetData("content_length", arrangement.ContentLength)
	if arrangement.Metronome != nil {
		span.SetData("metronome_measures", arrangement.Metronome.Measures)
	}
	span.SetData("warnings", len(arrangement.Warnings))

	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Arrangement: %s", arrangement.Kind)
}

// RecordFallback leaves a breadcrumb for an input that fell back to a default
func (m *SentryMetrics) RecordFallback(ctx context.Context, warning theory.Warning) {
	if !m.enabled {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category: "input.fallback",
		Message:  warning.String(),
		Level:    sentry.LevelWarning,
		Data: map[string]interface{}{
			"field":    warning.Field,
			"input":    warning.Input,
			"fallback": warning.Fallback,
		},
	}, nil)
}

// RecordTokenUsage records LLM token usage metrics
func (m *SentryMetrics) RecordTokenUsage(ctx context.Context, model string, totalTokens, inputTokens, outputTokens int) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("llm.model", model)
		transaction.SetData("llm.total_tokens", totalTokens)
		transaction.SetData("llm.input_tokens", inputTokens)
		transaction.SetData("llm.output_tokens", outputTokens)
	}

	span := sentry.StartSpan(ctx, "llm.token_usage")
	defer span.Finish()

	span.SetTag("model", model)
	span.SetTag("total_tokens", fmt.Sprintf("%d", totalTokens))
	span.SetData("input_tokens", inputTokens)
	span.SetData("output_tokens", outputTokens)

	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Token Usage: %s", model)
}

// RecordGenerationDuration records generation request duration
func (m *SentryMetrics) RecordGenerationDuration(ctx context.Context, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "generation.request")
	defer span.Finish()

	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("success", success)

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("Generation Request: %t", success)
}
