package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/accomplay-go/agents/accompanist"
	"github.com/Conceptual-Machines/accomplay-go/agents/interpreter"
	"github.com/Conceptual-Machines/accomplay-go/llm"
	"github.com/Conceptual-Machines/accomplay-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

type stubProvider struct {
	output string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	return &llm.GenerationResponse{RawOutput: p.output}, nil
}

func newTestServer(t *testing.T, provider llm.Provider) *httptest.Server {
	t.Helper()
	generator, err := accompanist.NewGenerator(accompanist.DefaultConfig())
	require.NoError(t, err)

	var interp *interpreter.Service
	if provider != nil {
		interp, err = interpreter.NewService(provider, "gpt-5-mini", accompanist.DefaultConfig())
		require.NoError(t, err)
	}

	ts := httptest.NewServer(New(generator, interp).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestScale(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/scale", `{"root":"C","mode":"major"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var arrangement models.Arrangement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&arrangement))
	assert.Equal(t, models.KindScale, arrangement.Kind)
	assert.Len(t, arrangement.Notes, 8)
	assert.Nil(t, arrangement.Metronome)
}

func TestScale_BadRoot(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/scale", `{"root":"X","mode":"major"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Error, "invalid note name")
}

func TestProgression_JSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/progression", `{
		"chords": [
			{"root": "D", "mode": "minor", "seventh": "minor", "includeSeventh": true, "durationBeats": 0.5},
			{"root": "G", "mode": "major", "seventh": "minor", "includeSeventh": true, "durationBeats": 0.5},
			{"root": "C", "mode": "major", "seventh": "major", "includeSeventh": true, "durationBeats": 1}
		],
		"timeSignature": "4/4",
		"tempoBpm": 100
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var arrangement models.Arrangement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&arrangement))
	require.Len(t, arrangement.Chords, 3)
	assert.Equal(t, "Dm7", arrangement.Chords[0].Symbol)
	assert.Equal(t, "G7", arrangement.Chords[1].Symbol)
	assert.Equal(t, "Cmaj7", arrangement.Chords[2].Symbol)
	require.NotNil(t, arrangement.Metronome)
	assert.InDelta(t, arrangement.Metronome.QuarterLength, arrangement.ContentOffset+arrangement.ContentLength, 1e-9)
}

func TestProgression_MIDI(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/progression?format=midi", `{"chords":[{"root":"C","mode":"major"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, midiMediaType, resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	sm, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, sm.Tracks, 3)
}

func TestProgression_BadRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"chords": [`},
		{"unknown field", `{"chordz": []}`},
		{"negative duration", `{"chords":[{"root":"C","mode":"major","durationBeats":-1}]}`},
		{"bad time signature", `{"chords":[],"timeSignature":"4/5"}`},
		{"duration too long", `{"chords":[{"root":"C","mode":"major","durationBeats":1e308}]}`},
		{"too many measures", `{"chords":[],"metronomeMeasures":2000000000}`},
		{"meter out of range", `{"chords":[],"timeSignature":"300/4"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/progression", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestInterpret(t *testing.T) {
	ts := newTestServer(t, &stubProvider{output: `{"chords":[{"root":"A","mode":"minor","seventh":"diatonic","includeSeventh":false,"durationBeats":0.5}],"timeSignature":"4/4","tempoBpm":110,"explanation":"A minor"}`})

	resp := post(t, ts.URL+"/v1/interpret", `{"question":"just A minor please"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body interpretResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Arrangement)
	assert.Equal(t, "Am", body.Arrangement.Chords[0].Symbol)
	assert.Equal(t, 110.0, body.Arrangement.TempoBPM)
	assert.Equal(t, "A minor", body.Interpretation.Explanation)
}

func TestInterpret_NotConfigured(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/interpret", `{"question":"C major"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestInterpret_EmptyQuestion(t *testing.T) {
	ts := newTestServer(t, &stubProvider{})

	resp := post(t, ts.URL+"/v1/interpret", `{"question":" "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/progression", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
