package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/accomplay-go/agents/accompanist"
	"github.com/Conceptual-Machines/accomplay-go/llm"
	"github.com/Conceptual-Machines/accomplay-go/metrics"
	"github.com/Conceptual-Machines/accomplay-go/prompt"
	"github.com/getsentry/sentry-go"
)

const maxOutputTruncateLength = 200

var (
	// ErrEmptyQuestion is returned for blank natural-language input
	ErrEmptyQuestion = errors.New("question must not be empty")
	// ErrNoChords is returned when the model answers without any chord
	ErrNoChords = errors.New("model returned no chords")
)

// Service turns a natural-language description of a progression into a
// ProgressionRequest using an LLM provider
type Service struct {
	provider     llm.Provider
	model        string
	systemPrompt string
	metrics      *metrics.SentryMetrics
}

// Result is the interpreted progression plus what the model said about it
type Result struct {
	Request     accompanist.ProgressionRequest `json:"request"`
	Explanation string                         `json:"explanation,omitempty"`
	Usage       llm.Usage                      `json:"usage"`
}

type progressionOutput struct {
	Chords        []accompanist.ChordRequest `json:"chords"`
	TimeSignature string                     `json:"timeSignature"`
	TempoBPM      float64                    `json:"tempoBpm"`
	Explanation   string                     `json:"explanation"`
}

// NewService creates an interpreter around provider. The generator defaults
// are written into the system prompt.
func NewService(provider llm.Provider, model string, defaults accompanist.Config) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("interpreter: provider is required")
	}

	builder := prompt.NewAccompanimentPromptBuilder(prompt.Defaults{
		TimeSignature: defaults.TimeSignature.String(),
		TempoBPM:      defaults.TempoBPM,
		DurationBeats: defaults.TimeSignature.ToBeats(defaults.NoteQuarterLength),
	})
	systemPrompt, err := builder.BuildPrompt()
	if err != nil {
		return nil, fmt.Errorf("failed to build system prompt: %w", err)
	}

	log.Printf("🎵 INTERPRETER INITIALIZED:")
	log.Printf("   Provider: %s", provider.Name())
	log.Printf("   Model: %s", model)

	return &Service{
		provider:     provider,
		model:        model,
		systemPrompt: systemPrompt,
		metrics:      metrics.NewSentryMetrics(),
	}, nil
}

// Interpret asks the model for a progression matching question
func (s *Service) Interpret(ctx context.Context, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	startTime := time.Now()
	log.Printf("🎵 INTERPRET REQUEST STARTED (Model: %s)", s.model)

	transaction := sentry.StartTransaction(ctx, "interpreter.interpret")
	defer transaction.Finish()
	ctx = transaction.Context()

	transaction.SetTag("model", s.model)
	transaction.SetTag("provider", s.provider.Name())

	resp, err := s.provider.Generate(ctx, &llm.GenerationRequest{
		Model:         s.model,
		InputArray:    []map[string]any{llm.UserMessage(question)},
		SystemPrompt:  s.systemPrompt,
		ReasoningMode: "low",
		OutputSchema:  llm.GetProgressionSchema(),
	})
	if err != nil {
		s.metrics.RecordGenerationDuration(ctx, time.Since(startTime), false)
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("interpreter generation failed: %w", err)
	}

	s.metrics.RecordTokenUsage(ctx, s.model, resp.Usage.TotalTokens, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	result, err := parseOutput(resp.RawOutput)
	s.metrics.RecordGenerationDuration(ctx, time.Since(startTime), err == nil)
	if err != nil {
		log.Printf("❌ Failed to parse interpreter output: %v", err)
		log.Printf("Raw output (first %d chars): %s", maxOutputTruncateLength, llm.Truncate(resp.RawOutput, maxOutputTruncateLength))
		transaction.SetTag("success", "false")
		return nil, err
	}
	result.Usage = resp.Usage

	transaction.SetTag("success", "true")
	log.Printf("✅ INTERPRET COMPLETED in %v: %d chords", time.Since(startTime), len(result.Request.Chords))
	return result, nil
}

func parseOutput(raw string) (*Result, error) {
	var output progressionOutput
	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}
	if len(output.Chords) == 0 {
		return nil, ErrNoChords
	}

	for i, chord := range output.Chords {
		if strings.TrimSpace(chord.Root) == "" {
			return nil, fmt.Errorf("chord %d: %w", i+1, accompanist.ErrEmptyChordToken)
		}
		// the schema always carries a seventh; it only counts when requested
		if !chord.IncludeSeventh {
			output.Chords[i].Seventh = ""
		}
	}

	return &Result{
		Request: accompanist.ProgressionRequest{
			Chords:        output.Chords,
			TimeSignature: output.TimeSignature,
			TempoBPM:      output.TempoBPM,
		},
		Explanation: output.Explanation,
	}, nil
}
