// Package web exposes the game engine over HTTP.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"walkrisk-engine/internal/config"
	"walkrisk-engine/internal/errors"
	"walkrisk-engine/internal/game"
	"walkrisk-engine/internal/indicators"
	"walkrisk-engine/internal/logging"
	"walkrisk-engine/internal/patterns"
)

// Server wraps the engine behind a chi router.
type Server struct {
	engine *game.Engine
	log    zerolog.Logger
	http   *http.Server
}

// NewServer builds the HTTP server around an engine.
func NewServer(cfg config.WebConfig, engine *game.Engine, log zerolog.Logger) *Server {
	s := &Server{engine: engine, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/challenges", s.handleCreateChallenge)
		r.Get("/challenges/{id}", s.handleGetChallenge)
		r.Post("/challenges/{id}/submissions", s.handleSubmit)
		r.Get("/players/{id}/difficulty", s.handleDifficulty)
		r.Get("/players/{id}/recommendations", s.handleRecommendations)
		r.Get("/stats", s.handleStats)
	})

	s.http = &http.Server{
		Addr:         cfg.Listen,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("listen", s.http.Addr).Msg("HTTP server starting")
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.LogRequest(s.log, r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

type createChallengeRequest struct {
	Mode       string   `json:"mode"`
	Difficulty string   `json:"difficulty"`
	Patterns   []string `json:"patterns,omitempty"`
	Indicators []string `json:"indicators,omitempty"`
}

type submitRequest struct {
	PlayerID  string        `json:"player_id"`
	Answers   []game.Answer `json:"answers"`
	TimeTaken float64       `json:"time_taken"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req createChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := game.CreateParams{Difficulty: game.Difficulty(req.Difficulty)}
	for _, p := range req.Patterns {
		params.Patterns = append(params.Patterns, patterns.Type(p))
	}
	for _, i := range req.Indicators {
		params.Indicators = append(params.Indicators, indicators.Type(i))
	}

	c, err := s.engine.CreateChallenge(game.GameMode(req.Mode), params)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c.ToMap())
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := s.engine.GetChallenge(chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.ToMap())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}

	result, err := s.engine.SubmitAnswers(r.Context(), chi.URLParam(r, "id"), req.PlayerID, req.Answers, req.TimeTaken)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.ToMap())
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	difficulty, err := s.engine.AdaptiveDifficulty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"difficulty": string(difficulty)})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.engine.RecommendedChallenges(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.ChallengeStatistics(r.Context())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeEngineError maps typed engine errors onto HTTP status codes.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var valErr *errors.ValidationError
	switch {
	case errors.Is(err, errors.ErrChallengeNotFound):
		writeError(w, http.StatusNotFound, "challenge not found")
	case errors.Is(err, errors.ErrChallengeExpired):
		writeError(w, http.StatusGone, "challenge expired")
	case errors.Is(err, errors.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, "already submitted")
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
