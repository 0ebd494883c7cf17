package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/trafficlens/roadrag"
	"github.com/trafficlens/roadrag/core"
)

const noContextResponse = "Insufficient information in the provided context. " +
	"No matching regulation material was found for this question."

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	RequestID   string     `json:"request_id"`
	Query       string     `json:"query"`
	Answer      answerBody `json:"answer"`
	Provenance  string     `json:"provenance"`
	GraphHits   int        `json:"graph_hits"`
	VectorHits  int        `json:"vector_hits"`
	GraphError  bool       `json:"graph_error"`
	VectorEmpty bool       `json:"vector_empty"`
	DurationMS  int64      `json:"duration_ms"`
}

type answerBody struct {
	DirectAnswer       string          `json:"direct_answer"`
	StandardReferences []string        `json:"standard_references,omitempty"`
	Interventions      []string        `json:"interventions,omitempty"`
	CodesClauses       []string        `json:"codes_clauses,omitempty"`
	Recommendations    []string        `json:"recommendations,omitempty"`
	Citations          []core.Citation `json:"citations,omitempty"`
	Failed             bool            `json:"failed"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "empty query")
		return
	}

	result, err := s.pipeline.Ask(r.Context(), req.Message)
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		s.respondError(w, http.StatusBadRequest, "empty query")
		return
	case errors.Is(err, core.ErrEmptyContext):
		// Still a well-formed response: the user learns nothing was found.
		resp := buildChatResponse(result)
		resp.Answer.DirectAnswer = noContextResponse
		s.respondJSON(w, http.StatusOK, resp)
		return
	case err != nil:
		s.logger.Error("chat request failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, buildChatResponse(result))
}

func buildChatResponse(result *roadrag.Result) chatResponse {
	return chatResponse{
		RequestID: result.RequestID,
		Query:     result.Query,
		Answer: answerBody{
			DirectAnswer:       result.Answer.DirectAnswer,
			StandardReferences: result.Answer.StandardReferences,
			Interventions:      result.Answer.Interventions,
			CodesClauses:       result.Answer.CodesClauses,
			Recommendations:    result.Answer.Recommendations,
			Citations:          result.Answer.Citations,
			Failed:             result.Answer.Failed,
		},
		Provenance:  result.Provenance.String(),
		GraphHits:   len(result.GraphHits),
		VectorHits:  len(result.VectorHits),
		GraphError:  result.GraphError,
		VectorEmpty: result.VectorEmpty,
		DurationMS:  result.Duration.Milliseconds(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.pipeline.IndexStats()
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"index":   stats,
		"history": s.pipeline.History() != nil,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history := s.pipeline.History()
	if history == nil {
		s.respondJSON(w, http.StatusOK, map[string]any{
			"enabled": false,
			"history": []any{},
		})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	exchanges, err := history.RecentExchanges(r.Context(), limit)
	if err != nil {
		s.logger.Error("history request failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if exchanges == nil {
		exchanges = []*core.Exchange{}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"history": exchanges,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("error encoding response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
