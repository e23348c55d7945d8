// Package server provides the HTTP REST API for the text corrector.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zalint/text-corrector/internal/dashboard"
	"github.com/zalint/text-corrector/internal/db"
	"github.com/zalint/text-corrector/internal/position"
	"github.com/zalint/text-corrector/internal/reformulate"
	"github.com/zalint/text-corrector/internal/server/middleware"
	"github.com/zalint/text-corrector/internal/types"
	"github.com/zalint/text-corrector/internal/verify"
)

// Corrector runs the correction pipeline.
type Corrector interface {
	Correct(ctx context.Context, text string, language types.Language, opts types.Options) (*types.CorrectionResult, error)
}

// Verifier reviews a correction with the cheap model.
type Verifier interface {
	Verify(ctx context.Context, original, corrected string, language types.Language) verify.Report
}

// Detector classifies text language.
type Detector interface {
	Detect(ctx context.Context, text string) types.Language
}

// Reformulator rewrites a text in a target style.
type Reformulator interface {
	Reformulate(ctx context.Context, text string, language types.Language, style string) (*reformulate.Result, error)
}

// CorrectionStore is the persistence surface the handlers use. It is
// nil when the server runs without a database.
type CorrectionStore interface {
	dashboard.Store
	SaveCorrection(ctx context.Context, userID uuid.UUID, originalText string, language types.Language, result *types.CorrectionResult) (uuid.UUID, error)
	SaveReformulation(ctx context.Context, userID uuid.UUID, originalText, reformulatedText, style string, language types.Language) (uuid.UUID, error)
	ListReformulations(ctx context.Context, userID uuid.UUID, limit int) ([]db.Reformulation, error)
	GetTextDetails(ctx context.Context, userID, textID uuid.UUID) (*db.CorrectedText, error)
	GetTextErrors(ctx context.Context, userID, textID uuid.UUID) ([]db.TextError, error)
}

// CorrectionResponse is the /api/correct response body.
type CorrectionResponse struct {
	CorrectedText string                  `json:"correctedText"`
	Errors        []types.CorrectionError `json:"errors"`
	IsGuest       bool                    `json:"isGuest"`
	Degraded      bool                    `json:"degraded,omitempty"`
	Feedback      string                  `json:"feedback,omitempty"`
	TextID        *uuid.UUID              `json:"textId,omitempty"`
}

// ReformulationResponse is the /api/reformulate response body.
type ReformulationResponse struct {
	ReformulatedText string `json:"reformulatedText"`
	Feedback         string `json:"feedback,omitempty"`
	IsGuest          bool   `json:"isGuest"`
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req types.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.corrector.Correct(r.Context(), req.Text, req.Language, req.Options)
	if err != nil {
		respondError(w, HTTPStatus(err), err.Error())
		return
	}

	resp := CorrectionResponse{
		CorrectedText: result.CorrectedText,
		Errors:        result.Errors,
		Degraded:      result.Degraded,
		IsGuest:       true,
	}

	if s.verifier != nil && !result.Degraded {
		report := s.verifier.Verify(r.Context(), req.Text, result.CorrectedText, req.Language)
		if !report.IsValid {
			resp.Feedback = report.Feedback
			extra := position.Resolve(req.Text, report.AdditionalErrors)
			resp.Errors = append(resp.Errors, extra...)
		}
	}

	userID, err := middleware.GetUserID(r)
	if err == nil {
		resp.IsGuest = false
		if s.store != nil && !result.Degraded {
			saved := &types.CorrectionResult{CorrectedText: resp.CorrectedText, Errors: resp.Errors}
			textID, err := s.store.SaveCorrection(r.Context(), userID, req.Text, req.Language, saved)
			if err != nil {
				log.Error().Err(err).Str("component", "server").Msg("failed to persist correction")
			} else {
				resp.TextID = &textID
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReformulate(w http.ResponseWriter, r *http.Request) {
	var req types.ReformulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.reformulator.Reformulate(r.Context(), req.Text, req.Language, req.Style)
	if err != nil {
		respondError(w, HTTPStatus(err), err.Error())
		return
	}

	resp := ReformulationResponse{
		ReformulatedText: result.ReformulatedText,
		Feedback:         result.Feedback,
		IsGuest:          true,
	}

	userID, err := middleware.GetUserID(r)
	if err == nil {
		resp.IsGuest = false
		if s.store != nil {
			if _, err := s.store.SaveReformulation(r.Context(), userID, req.Text, result.ReformulatedText, req.Style, req.Language); err != nil {
				log.Error().Err(err).Str("component", "server").Msg("failed to persist reformulation")
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req types.DetectLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	language := s.detector.Detect(r.Context(), req.Text)
	respondJSON(w, http.StatusOK, map[string]types.Language{"language": language})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireStoreAndUser(w, r)
	if !ok {
		return
	}
	entries, err := s.store.GetHistory(r.Context(), userID, 10)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireStoreAndUser(w, r)
	if !ok {
		return
	}
	stats, err := s.store.GetUserStats(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTextDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireStoreAndUser(w, r)
	if !ok {
		return
	}
	textID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid text ID")
		return
	}
	text, err := s.store.GetTextDetails(r.Context(), userID, textID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load text")
		return
	}
	if text == nil {
		respondError(w, http.StatusNotFound, "Text not found")
		return
	}
	respondJSON(w, http.StatusOK, text)
}

func (s *Server) handleTextErrors(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireStoreAndUser(w, r)
	if !ok {
		return
	}
	textID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid text ID")
		return
	}
	textErrors, err := s.store.GetTextErrors(r.Context(), userID, textID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load text errors")
		return
	}
	respondJSON(w, http.StatusOK, textErrors)
}

func (s *Server) handleReformulations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireStoreAndUser(w, r)
	if !ok {
		return
	}
	items, err := s.store.ListReformulations(r.Context(), userID, 10)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load reformulations")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireStoreAndUser(w, r)
	if !ok {
		return
	}
	data, err := dashboard.Build(r.Context(), s.store, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireStoreAndUser resolves the authenticated user and checks that
// persistence is configured, writing the error response itself when not.
func (s *Server) requireStoreAndUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Persistence is not configured")
		return uuid.Nil, false
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Str("component", "server").Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
