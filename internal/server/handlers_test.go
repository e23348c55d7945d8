package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalint/text-corrector/internal/db"
	"github.com/zalint/text-corrector/internal/reformulate"
	"github.com/zalint/text-corrector/internal/server/ratelimit"
	"github.com/zalint/text-corrector/internal/types"
	"github.com/zalint/text-corrector/internal/verify"
)

type stubCorrector struct {
	result  *types.CorrectionResult
	err     error
	gotText string
}

func (c *stubCorrector) Correct(_ context.Context, text string, _ types.Language, _ types.Options) (*types.CorrectionResult, error) {
	c.gotText = text
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

type stubVerifier struct {
	report verify.Report
	called bool
}

func (v *stubVerifier) Verify(_ context.Context, _, _ string, _ types.Language) verify.Report {
	v.called = true
	return v.report
}

type stubDetector struct{ language types.Language }

func (d *stubDetector) Detect(context.Context, string) types.Language { return d.language }

type stubReformulator struct{ result *reformulate.Result }

func (r *stubReformulator) Reformulate(context.Context, string, types.Language, string) (*reformulate.Result, error) {
	return r.result, nil
}

type stubStore struct {
	savedCorrections   int
	savedUserID        uuid.UUID
	savedResult        *types.CorrectionResult
	savedReformulation int
	history            []db.HistoryEntry
	stats              *db.UserStats
}

func (s *stubStore) SaveCorrection(_ context.Context, userID uuid.UUID, _ string, _ types.Language, result *types.CorrectionResult) (uuid.UUID, error) {
	s.savedCorrections++
	s.savedUserID = userID
	s.savedResult = result
	return uuid.New(), nil
}

func (s *stubStore) SaveReformulation(_ context.Context, _ uuid.UUID, _, _, _ string, _ types.Language) (uuid.UUID, error) {
	s.savedReformulation++
	return uuid.New(), nil
}

func (s *stubStore) ListReformulations(context.Context, uuid.UUID, int) ([]db.Reformulation, error) {
	return []db.Reformulation{}, nil
}

func (s *stubStore) GetTextDetails(context.Context, uuid.UUID, uuid.UUID) (*db.CorrectedText, error) {
	return nil, nil
}

func (s *stubStore) GetTextErrors(context.Context, uuid.UUID, uuid.UUID) ([]db.TextError, error) {
	return []db.TextError{}, nil
}

func (s *stubStore) GetHistory(context.Context, uuid.UUID, int) ([]db.HistoryEntry, error) {
	return s.history, nil
}

func (s *stubStore) GetUserStats(context.Context, uuid.UUID) (*db.UserStats, error) {
	if s.stats != nil {
		return s.stats, nil
	}
	return &db.UserStats{}, nil
}

func (s *stubStore) RecentErrorCounts(context.Context, uuid.UUID, int) ([]int, error) {
	return []int{}, nil
}

func (s *stubStore) TopErrorTypes(context.Context, uuid.UUID, int) ([]db.ErrorTypeCount, error) {
	return []db.ErrorTypeCount{}, nil
}

func newTestServer(t *testing.T, corrector Corrector, verifier Verifier, store CorrectionStore) (*Server, http.Handler) {
	t.Helper()
	s := &Server{
		corrector:    corrector,
		verifier:     verifier,
		detector:     &stubDetector{language: types.LanguageFrench},
		reformulator: &stubReformulator{result: &reformulate.Result{ReformulatedText: "rewritten"}},
		store:        store,
		tokens:       testSessionTokens(),
		rateLimiter:  ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}
	return s, s.routes()
}

func postJSON(t *testing.T, handler http.Handler, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleCorrect_Guest(t *testing.T) {
	corrector := &stubCorrector{result: &types.CorrectionResult{
		CorrectedText: "Je veux manger.",
		Errors:        []types.CorrectionError{},
	}}
	verifier := &stubVerifier{report: verify.Report{IsValid: true}}
	store := &stubStore{}
	_, handler := newTestServer(t, corrector, verifier, store)

	rec := postJSON(t, handler, "/api/correct", "", types.CorrectionRequest{
		Text: "Je veut manger.", Language: types.LanguageFrench,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CorrectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsGuest)
	assert.Equal(t, "Je veux manger.", resp.CorrectedText)
	assert.Nil(t, resp.TextID)
	assert.Equal(t, 0, store.savedCorrections, "guest corrections are never persisted")
}

func TestHandleCorrect_AuthenticatedPersists(t *testing.T) {
	corrector := &stubCorrector{result: &types.CorrectionResult{
		CorrectedText: "Je veux manger.",
		Errors:        []types.CorrectionError{},
	}}
	verifier := &stubVerifier{report: verify.Report{IsValid: true}}
	store := &stubStore{}
	s, handler := newTestServer(t, corrector, verifier, store)

	userID := uuid.New()
	token, err := s.tokens.Issue(userID)
	require.NoError(t, err)

	rec := postJSON(t, handler, "/api/correct", token, types.CorrectionRequest{
		Text: "Je veut manger.", Language: types.LanguageFrench,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CorrectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsGuest)
	assert.NotNil(t, resp.TextID)
	assert.Equal(t, 1, store.savedCorrections)
	assert.Equal(t, userID, store.savedUserID)
}

func TestHandleCorrect_MergesVerificationErrors(t *testing.T) {
	corrector := &stubCorrector{result: &types.CorrectionResult{
		CorrectedText: "Je veux manger une pomme.",
		Errors:        []types.CorrectionError{{Type: "Conjugaison", Message: "m", Severity: "severe"}},
	}}
	verifier := &stubVerifier{report: verify.Report{
		IsValid:  false,
		Feedback: "une erreur manquée",
		AdditionalErrors: []types.CorrectionError{
			{Type: "Accord", Message: "accord manqué", Severity: "medium", Original: "veut"},
		},
	}}
	_, handler := newTestServer(t, corrector, verifier, &stubStore{})

	text := "Je veut manger une pomme."
	rec := postJSON(t, handler, "/api/correct", "", types.CorrectionRequest{
		Text: text, Language: types.LanguageFrench,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CorrectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "une erreur manquée", resp.Feedback)
	require.Len(t, resp.Errors, 2)

	merged := resp.Errors[1]
	assert.Equal(t, "Accord", merged.Type)
	require.True(t, merged.PositionStart != 0 || merged.PositionEnd != 0)
	assert.Equal(t, "veut", text[merged.PositionStart:merged.PositionEnd])
}

func TestHandleCorrect_DegradedSkipsVerificationAndPersistence(t *testing.T) {
	corrector := &stubCorrector{result: &types.CorrectionResult{
		CorrectedText: "Je veut manger.",
		Errors:        []types.CorrectionError{{Type: "system error", Severity: types.SeverityMajor}},
		Degraded:      true,
	}}
	verifier := &stubVerifier{report: verify.Report{IsValid: false}}
	store := &stubStore{}
	s, handler := newTestServer(t, corrector, verifier, store)

	token, err := s.tokens.Issue(uuid.New())
	require.NoError(t, err)

	rec := postJSON(t, handler, "/api/correct", token, types.CorrectionRequest{
		Text: "Je veut manger.", Language: types.LanguageFrench,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.False(t, verifier.called, "degraded results are not worth a verification call")
	assert.Equal(t, 0, store.savedCorrections, "degraded results are not persisted")
}

func TestHandleCorrect_BadRequests(t *testing.T) {
	_, handler := newTestServer(t, &stubCorrector{}, nil, &stubStore{})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/correct", bytes.NewReader([]byte("{nope")))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported language", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/correct", "", types.CorrectionRequest{
			Text: "Hola, que tal?", Language: "es",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing text", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/correct", "", types.CorrectionRequest{
			Language: types.LanguageFrench,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleDetectLanguage(t *testing.T) {
	_, handler := newTestServer(t, &stubCorrector{}, nil, &stubStore{})

	rec := postJSON(t, handler, "/api/detect-language", "", types.DetectLanguageRequest{Text: "Bonjour."})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]types.Language
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.LanguageFrench, resp["language"])
}

func TestHandleReformulate_AuthenticatedPersists(t *testing.T) {
	store := &stubStore{}
	s, handler := newTestServer(t, &stubCorrector{}, nil, store)

	token, err := s.tokens.Issue(uuid.New())
	require.NoError(t, err)

	rec := postJSON(t, handler, "/api/reformulate", token, types.ReformulationRequest{
		Text: "Regarde notre proposition.", Language: types.LanguageFrench, Style: "soutenu",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ReformulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rewritten", resp.ReformulatedText)
	assert.False(t, resp.IsGuest)
	assert.Equal(t, 1, store.savedReformulation)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	_, handler := newTestServer(t, &stubCorrector{}, nil, &stubStore{})

	for _, path := range []string{"/api/history", "/api/stats", "/api/dashboard", "/api/reformulations"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestHandleHistory_WithoutStore(t *testing.T) {
	s, handler := newTestServer(t, &stubCorrector{}, nil, nil)

	token, err := s.tokens.Issue(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	_, handler := newTestServer(t, &stubCorrector{}, nil, &stubStore{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
