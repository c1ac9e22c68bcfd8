// Package server exposes the summarization pipeline and the evaluator over a
// JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"textsum/internal/domain"
	"textsum/internal/evaluation"
	"textsum/internal/pipeline"
)

// Server handles the HTTP API. A fresh Summarizer is built per request
// because local embedders carry per-document state.
type Server struct {
	newSummarizer func() (*pipeline.Summarizer, error)
	evalCfg       evaluation.Config
}

func New(newSummarizer func() (*pipeline.Summarizer, error), evalCfg evaluation.Config) *Server {
	return &Server{newSummarizer: newSummarizer, evalCfg: evalCfg}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("POST /scores", s.handleScores)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	summarizer, err := s.newSummarizer()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp, err := summarizer.Summarize(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type scoresRequest struct {
	References []string `json:"references"`
	Candidate  string   `json:"candidate"`
	Metrics    []string `json:"metrics,omitempty"`
}

type scoresResponse struct {
	Scores domain.ScoreSet `json:"scores"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	var req scoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	scores, err := evaluation.ComputeScores(req.References, req.Candidate, req.Metrics, s.evalCfg)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scoresResponse{Scores: scores})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOracleTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrOracleUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
