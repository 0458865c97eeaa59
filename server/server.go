package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/accomplay-go/agents/accompanist"
	"github.com/Conceptual-Machines/accomplay-go/agents/interpreter"
	"github.com/Conceptual-Machines/accomplay-go/models"
	"github.com/Conceptual-Machines/accomplay-go/render"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const (
	maxBodyBytes      = 1 << 20
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second

	formatMIDI    = "midi"
	midiMediaType = "audio/midi"
)

// Server exposes the generator over HTTP
type Server struct {
	generator   *accompanist.Generator
	interpreter *interpreter.Service
}

// New creates a server. interp may be nil, in which case /v1/interpret
// answers 503.
func New(generator *accompanist.Generator, interp *interpreter.Service) *Server {
	return &Server{generator: generator, interpreter: interp}
}

type errorResponse struct {
	Error string `json:"error"`
}

type interpretRequest struct {
	Question string `json:"question"`
}

type interpretResponse struct {
	Interpretation *interpreter.Result  `json:"interpretation"`
	Arrangement    *models.Arrangement `json:"arrangement"`
}

// Handler returns the router wrapped in CORS handling
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/scale", s.handleScale).Methods(http.MethodPost)
	v1.HandleFunc("/progression", s.handleProgression).Methods(http.MethodPost)
	v1.HandleFunc("/interpret", s.handleInterpret).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🎵 Listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Printf("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	var req accompanist.ScaleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	arrangement, err := s.generator.GenerateScale(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeArrangement(w, r, arrangement)
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	var req accompanist.ProgressionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	arrangement, err := s.generator.GenerateProgression(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeArrangement(w, r, arrangement)
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	if s.interpreter == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("interpreter is not configured (set OPENAI_API_KEY or GEMINI_API_KEY)"))
		return
	}

	var req interpretRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.interpreter.Interpret(r.Context(), req.Question)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, interpreter.ErrEmptyQuestion) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	arrangement, err := s.generator.GenerateProgression(r.Context(), result.Request)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, interpretResponse{Interpretation: result, Arrangement: arrangement})
}

func (s *Server) writeArrangement(w http.ResponseWriter, r *http.Request, arrangement *models.Arrangement) {
	if r.URL.Query().Get("format") != formatMIDI {
		writeJSON(w, http.StatusOK, arrangement)
		return
	}

	var buf bytes.Buffer
	if err := render.WriteMIDI(&buf, arrangement); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", midiMediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+arrangement.Kind+`.mid"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("⚠️  Failed to write MIDI response: %v", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Printf("❌ %d: %v", status, err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
