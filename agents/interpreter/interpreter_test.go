package interpreter

import (
	"context"
	"errors"
	"testing"

	"github.com/Conceptual-Machines/accomplay-go/agents/accompanist"
	"github.com/Conceptual-Machines/accomplay-go/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	output  string
	err     error
	request *llm.GenerationRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	f.request = request
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerationResponse{
		RawOutput: f.output,
		Usage:     llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

func newTestService(t *testing.T, provider llm.Provider) *Service {
	t.Helper()
	service, err := NewService(provider, "gpt-5-mini", accompanist.DefaultConfig())
	require.NoError(t, err)
	return service
}

func TestInterpret(t *testing.T) {
	provider := &fakeProvider{output: `{
		"chords": [
			{"root": "G", "mode": "major", "seventh": "diatonic", "includeSeventh": false, "durationBeats": 0.5},
			{"root": "E", "mode": "minor", "seventh": "minor", "includeSeventh": true, "durationBeats": 0.5}
		],
		"timeSignature": "3/4",
		"tempoBpm": 90,
		"explanation": "I then vi7 in G"
	}`}
	service := newTestService(t, provider)

	result, err := service.Interpret(context.Background(), "G then E minor seven, waltz time, 90 bpm")
	require.NoError(t, err)

	require.Len(t, result.Request.Chords, 2)
	assert.Equal(t, "G", result.Request.Chords[0].Root)
	assert.Empty(t, result.Request.Chords[0].Seventh)
	assert.Equal(t, "minor", result.Request.Chords[1].Seventh)
	assert.True(t, result.Request.Chords[1].IncludeSeventh)
	require.NotNil(t, result.Request.Chords[1].DurationBeats)
	assert.Equal(t, 0.5, *result.Request.Chords[1].DurationBeats)
	assert.Equal(t, "3/4", result.Request.TimeSignature)
	assert.Equal(t, 90.0, result.Request.TempoBPM)
	assert.Equal(t, "I then vi7 in G", result.Explanation)
	assert.Equal(t, 15, result.Usage.TotalTokens)

	require.NotNil(t, provider.request)
	assert.Equal(t, "gpt-5-mini", provider.request.Model)
	assert.Equal(t, llm.ProgressionSchemaName, provider.request.OutputSchema.Name)
	assert.Contains(t, provider.request.SystemPrompt, "timeSignature: 4/4")
}

func TestInterpret_FeedsGenerator(t *testing.T) {
	provider := &fakeProvider{output: `{"chords":[{"root":"D","mode":"minor","seventh":"minor","includeSeventh":true,"durationBeats":0.5}],"timeSignature":"4/4","tempoBpm":120,"explanation":""}`}
	service := newTestService(t, provider)

	result, err := service.Interpret(context.Background(), "Dm7")
	require.NoError(t, err)

	generator, err := accompanist.NewGenerator(accompanist.DefaultConfig())
	require.NoError(t, err)
	arrangement, err := generator.GenerateProgression(context.Background(), result.Request)
	require.NoError(t, err)
	assert.Equal(t, "Dm7", arrangement.Chords[0].Symbol)
}

func TestInterpret_Errors(t *testing.T) {
	tests := []struct {
		name     string
		question string
		provider *fakeProvider
		check    func(t *testing.T, err error)
	}{
		{
			name:     "empty question",
			question: "   ",
			provider: &fakeProvider{},
			check:    func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrEmptyQuestion) },
		},
		{
			name:     "provider failure",
			question: "C major",
			provider: &fakeProvider{err: errors.New("boom")},
			check:    func(t *testing.T, err error) { assert.ErrorContains(t, err, "boom") },
		},
		{
			name:     "not json",
			question: "C major",
			provider: &fakeProvider{output: "C major, then G"},
			check:    func(t *testing.T, err error) { assert.ErrorContains(t, err, "failed to parse model output") },
		},
		{
			name:     "no chords",
			question: "C major",
			provider: &fakeProvider{output: `{"chords":[],"timeSignature":"4/4","tempoBpm":120,"explanation":""}`},
			check:    func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoChords) },
		},
		{
			name:     "chord without root",
			question: "C major",
			provider: &fakeProvider{output: `{"chords":[{"root":"","mode":"major"}]}`},
			check:    func(t *testing.T, err error) { assert.ErrorIs(t, err, accompanist.ErrEmptyChordToken) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, tt.provider)
			_, err := service.Interpret(context.Background(), tt.question)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNewService_RequiresProvider(t *testing.T) {
	_, err := NewService(nil, "gpt-5-mini", accompanist.DefaultConfig())
	assert.Error(t, err)
}
