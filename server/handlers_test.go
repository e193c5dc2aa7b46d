package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/assessly"
	"github.com/poiesic/assessly/ai/mock"
	"github.com/poiesic/assessly/core"
)

func newTestServer(t *testing.T) (*Server, *mock.MockProvider) {
	t.Helper()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	service, err := assessly.NewService("",
		assessly.WithInMemory(),
		assessly.WithProvider(provider),
		assessly.WithScoringWorkers(2),
	)
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })

	return New(service, Config{}), provider
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHandleGenerate(t *testing.T) {
	srv, provider := newTestServer(t)
	provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "```json\n" +
			`[{"text": "The powerhouse of the cell is the _____.", "correct_answer": "mitochondria"}]` +
			"\n```", nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/assessment/generate", map[string]any{
		"topic":          "cell biology",
		"assessmentType": "fill_in_blank",
		"questionCount":  1,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Questions      []core.GeneratedQuestion `json:"questions"`
		AssessmentType string                   `json:"assessmentType"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fill_in_blank", resp.AssessmentType)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, core.TypeFillInBlank, resp.Questions[0].Type)
}

func TestHandleGenerate_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	bodies := []map[string]any{
		{"assessmentType": "mcq", "questionCount": 3},
		{"topic": "biology", "questionCount": 3},
		{"topic": "biology", "assessmentType": "mcq"},
	}
	for i, body := range bodies {
		rec := doJSON(t, srv, http.MethodPost, "/api/assessment/generate", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %d", i)
		assert.Contains(t, rec.Body.String(), "Missing required fields", "case %d", i)
	}
}

func TestHandleGenerate_InvalidType(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/assessment/generate", map[string]any{
		"topic":          "biology",
		"assessmentType": "essay",
		"questionCount":  3,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerate_MalformedModelOutput(t *testing.T) {
	srv, provider := newTestServer(t)
	provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Sorry, I can't do that.", nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/assessment/generate", map[string]any{
		"topic":          "biology",
		"assessmentType": "mcq",
		"questionCount":  3,
	})

	// Tolerated: the client gets an empty question list, not an error
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Questions []core.GeneratedQuestion `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Questions)
}

func TestHandleGenerate_Save(t *testing.T) {
	srv, provider := newTestServer(t)
	provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return `[{"text": "Q1", "correct_answer": "A1"}]`, nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/assessment/generate", map[string]any{
		"topic":          "biology",
		"assessmentType": "short_answer",
		"questionCount":  1,
		"save":           true,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AssessmentID uint64 `json:"assessmentId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.AssessmentID)

	getRec := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/assessment/%d", resp.AssessmentID), nil)
	require.Equal(t, http.StatusOK, getRec.Code)
	assert.Contains(t, getRec.Body.String(), `"topic":"biology"`)
}

func TestHandleScore(t *testing.T) {
	srv, provider := newTestServer(t)
	provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "User's Answer: Paris") {
			return "0.9", nil
		}
		return "0.1", nil
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/assessment/score", map[string]any{
		"topic": "geography",
		"answers": []map[string]any{
			{
				"type":           "short_answer",
				"text":           "Capital of France?",
				"correct_answer": "Paris",
				"user_answer":    "Paris",
			},
			{
				"type":           "short_answer",
				"text":           "Capital of Spain?",
				"correct_answer": "Madrid",
				"user_answer":    "Rome",
			},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalScore int `json:"total_score"`
		Results    []struct {
			Score         int  `json:"score"`
			VerifiedByLLM bool `json:"verified_by_llm"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalScore)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 1, resp.Results[0].Score)
	assert.Equal(t, 0, resp.Results[1].Score)
	assert.True(t, resp.Results[0].VerifiedByLLM)
}

func TestHandleScore_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/assessment/score", map[string]any{
		"topic": "geography",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartUpload(t *testing.T, srv *Server, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("documents", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assessment/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHandleUpload(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := multipartUpload(t, srv, map[string]string{
		"notes.txt": "Photosynthesis converts light into chemical energy.",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message        string   `json:"message"`
		ProcessedFiles []string `json:"processed_files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Files processed", resp.Message)
	assert.Equal(t, []string{"notes.txt"}, resp.ProcessedFiles)
}

func TestHandleUpload_NoFiles(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("other", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assessment/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No files provided")
}

func TestHandleRecent(t *testing.T) {
	srv, provider := newTestServer(t)
	provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return `[{"text": "Q1", "correct_answer": "A1"}]`, nil
	}

	for i := 0; i < 3; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/assessment/generate", map[string]any{
			"topic":          fmt.Sprintf("topic %d", i),
			"assessmentType": "short_answer",
			"questionCount":  1,
			"save":           true,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/assessment/recent?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		Topic     string `json:"topic"`
		CreatedAt string `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "topic 2", resp[0].Topic)
	assert.NotEmpty(t, resp[0].CreatedAt)
}

func TestHandleRecent_InvalidLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/assessment/recent?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGet_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/assessment/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/assessment/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
