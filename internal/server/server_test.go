package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jobkit/cv-copilot/internal/analyzer"
	"github.com/jobkit/cv-copilot/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubModels struct {
	analyzeResponse    map[string]any
	analyzeErr         error
	matchResponse      map[string]any
	matchErr           error
	jobResponse        map[string]any
	jobErr             error
	optimizeResponse   map[string]any
	optimizeErr        error
	evalCVResponse     map[string]any
	evalCVErr          error
	evalLetterResponse map[string]any
	evalLetterErr      error
	letterResponse     string
	letterErr          error
}

func (s *stubModels) AnalyzeCV(_ context.Context, _ string) (map[string]any, error) {
	return s.analyzeResponse, s.analyzeErr
}

func (s *stubModels) MatchJob(_ context.Context, _, _ string) (map[string]any, error) {
	return s.matchResponse, s.matchErr
}

func (s *stubModels) AnalyzeJob(_ context.Context, _ string) (map[string]any, error) {
	return s.jobResponse, s.jobErr
}

func (s *stubModels) OptimizeCV(_ context.Context, _, _ string, _ float64) (map[string]any, error) {
	return s.optimizeResponse, s.optimizeErr
}

func (s *stubModels) EvaluateCV(_ context.Context, _ string) (map[string]any, error) {
	return s.evalCVResponse, s.evalCVErr
}

func (s *stubModels) EvaluateLetter(_ context.Context, _, _, _ string) (map[string]any, error) {
	return s.evalLetterResponse, s.evalLetterErr
}

func (s *stubModels) CoverLetter(_ context.Context, _, _, _ string) (string, error) {
	return s.letterResponse, s.letterErr
}

func newTestServer(models *stubModels) *Server {
	return New(analyzer.New(models, zap.NewNop()), zap.NewNop(), false)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&stubModels{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(&stubModels{
		analyzeResponse: map[string]any{
			"skills":           []any{"communication"},
			"experience_years": 4,
		},
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze", map[string]string{
		"cv_text": "Experience\n- Built Python services on AWS\nSkills\nPython, Docker",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Analysis analyzer.Analysis `json:"analysis"`
		Score    float64           `json:"score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 4, resp.Analysis.Experience.Years)
	assert.Contains(t, resp.Analysis.Skills.TechnicalSkills, "python")
	assert.GreaterOrEqual(t, resp.Score, 0.0)
	assert.LessOrEqual(t, resp.Score, 100.0)
}

func TestAnalyzeEndpointMissingCV(t *testing.T) {
	s := newTestServer(&stubModels{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeEndpointMultipartUpload(t *testing.T) {
	s := newTestServer(&stubModels{
		analyzeResponse: map[string]any{"experience_years": 2},
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("cv_file", "cv.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Experience\n- Shipped Go services\nSkills\nGo, Kubernetes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeEndpointUnsupportedUpload(t *testing.T) {
	s := newTestServer(&stubModels{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("cv_file", "cv.odt")
	require.NoError(t, err)
	_, err = part.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeEndpointProviderFailure(t *testing.T) {
	s := newTestServer(&stubModels{
		analyzeErr: &llm.ProviderError{Provider: "openai", StatusCode: 500, Err: errors.New("upstream down")},
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze", map[string]string{"cv_text": "some cv"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAnalyzeEndpointInvalidModelAnswer(t *testing.T) {
	s := newTestServer(&stubModels{
		analyzeErr: llm.ErrInvalidResponseFormat,
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze", map[string]string{"cv_text": "some cv"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMatchEndpoint(t *testing.T) {
	s := newTestServer(&stubModels{
		matchResponse: map[string]any{
			"match_percentage": 85.0,
			"matching_skills":  []any{"Go"},
			"missing_skills":   []any{"Rust"},
		},
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/match", map[string]string{
		"cv_text":         "Go engineer",
		"job_description": "Looking for a Go and Rust engineer",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result analyzer.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 85.0, result.MatchPercentage)
	assert.Equal(t, []string{"Go"}, result.MatchingSkills)
	assert.Equal(t, []string{"Rust"}, result.MissingSkills)
}

func TestMatchEndpointMissingJobDescription(t *testing.T) {
	s := newTestServer(&stubModels{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/match", map[string]string{
		"cv_text": "Go engineer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeJobEndpoint(t *testing.T) {
	s := newTestServer(&stubModels{
		jobResponse: map[string]any{
			"required_skills": []any{"Go"},
			"seniority_level": "Senior",
		},
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze-job", map[string]string{
		"job_description": "Senior Go engineer building services on AWS",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var analysis analyzer.JobAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, []string{"Go"}, analysis.Requirements.RequiredSkills)
	assert.Equal(t, "Senior", analysis.Details.SeniorityLevel)
	assert.Contains(t, analysis.Requirements.TechnicalSkills, "aws")
}

func TestAnalyzeJobEndpointMissingBody(t *testing.T) {
	s := newTestServer(&stubModels{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze-job", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptimizeEndpoint(t *testing.T) {
	s := newTestServer(&stubModels{
		matchResponse: map[string]any{"match_percentage": 55.0},
		optimizeResponse: map[string]any{
			"optimized_text": "better cv",
			"changes":        []any{"reworded summary"},
		},
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/optimize", map[string]string{
		"cv_text":         "original cv",
		"job_description": "the job",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result analyzer.Optimization
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "better cv", result.OptimizedCV)
	assert.Equal(t, 1, result.Improvements.ChangesMade)
}

func TestOptimizeEndpointMissingJobDescription(t *testing.T) {
	s := newTestServer(&stubModels{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/optimize", map[string]string{
		"cv_text": "original cv",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluateEndpoint(t *testing.T) {
	s := newTestServer(&stubModels{
		evalCVResponse: map[string]any{
			"content_quality_score": 80.0,
			"achievements_score":    80.0,
			"experience_score":      80.0,
			"skills_score":          80.0,
		},
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/evaluate", map[string]string{
		"cv_text": "some cv",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var evaluation analyzer.CVEvaluation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &evaluation))
	assert.InDelta(t, 80.0, evaluation.OverallScore, 0.001)
}

func TestCoverLetterEndpoint(t *testing.T) {
	s := newTestServer(&stubModels{letterResponse: "Dear Acme team,"})

	w := doJSON(t, s, http.MethodPost, "/api/v1/cover-letter", map[string]string{
		"cv_text":         "Go engineer",
		"job_description": "Backend role",
		"company":         "Acme",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dear Acme team,", resp["cover_letter"])
}

func TestCoverLetterEndpointWithEvaluation(t *testing.T) {
	s := newTestServer(&stubModels{
		letterResponse: "Dear Acme team,",
		evalLetterResponse: map[string]any{
			"content_relevance_score": 85.0,
			"professional_tone_score": 90.0,
			"customization_score":     80.0,
			"structure_format_score":  88.0,
		},
	})

	w := doJSON(t, s, http.MethodPost, "/api/v1/cover-letter", map[string]any{
		"cv_text":         "Go engineer",
		"job_description": "Backend role",
		"company":         "Acme",
		"evaluate":        true,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CoverLetter string                     `json:"cover_letter"`
		Evaluation  *analyzer.LetterEvaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dear Acme team,", resp.CoverLetter)
	require.NotNil(t, resp.Evaluation)
	assert.True(t, resp.Evaluation.MeetsStandards)
	assert.InDelta(t, 85.75, resp.Evaluation.OverallScore, 0.001)
}

func TestCoverLetterEndpointMissingFields(t *testing.T) {
	s := newTestServer(&stubModels{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/cover-letter", map[string]string{
		"cv_text": "Go engineer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(&stubModels{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}

func TestErrorResponseIncludesRequestID(t *testing.T) {
	s := newTestServer(&stubModels{analyzeErr: errors.New("boom")})

	w := doJSON(t, s, http.MethodPost, "/api/v1/analyze", map[string]string{"cv_text": "some cv"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["request_id"])
	assert.True(t, strings.Contains(resp["error"], "boom"))
}
