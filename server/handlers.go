package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/poiesic/assessly/assessment"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/ingestion"
	"github.com/poiesic/assessly/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

type generateRequest struct {
	Topic          string `json:"topic"`
	AssessmentType string `json:"assessmentType"`
	QuestionCount  int    `json:"questionCount"`
	Save           bool   `json:"save"`
}

type generateResponse struct {
	Questions      []core.GeneratedQuestion `json:"questions"`
	AssessmentType string                   `json:"assessmentType"`
	AssessmentID   uint64                   `json:"assessmentId,omitempty"`
}

func (s *Server) handleGenerate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.Topic == "" || req.AssessmentType == "" || req.QuestionCount == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing required fields"})
	}

	assessmentType := core.AssessmentType(req.AssessmentType)
	ctx := c.Request().Context()

	questions, err := s.service.GenerateAssessment(ctx, req.Topic, assessmentType, req.QuestionCount)
	if err != nil && !errors.Is(err, assessment.ErrMalformedResponse) {
		if errors.Is(err, core.ErrInvalidAssessmentType) || errors.Is(err, assessment.ErrNoQuestionCount) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to generate questions"})
	}

	resp := generateResponse{
		Questions:      questions,
		AssessmentType: req.AssessmentType,
	}

	if req.Save && len(questions) > 0 {
		saved, err := s.service.SaveAssessment(ctx, req.Topic, assessmentType, questions)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to save assessment"})
		}
		resp.AssessmentID = uint64(saved.Id)
	}

	return c.JSON(http.StatusOK, resp)
}

type scoreRequest struct {
	Topic   string                  `json:"topic"`
	Answers []*core.SubmittedAnswer `json:"answers"`
}

func (s *Server) handleScore(c echo.Context) error {
	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.Topic == "" || len(req.Answers) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing required fields"})
	}

	report := s.service.ScoreAnswers(c.Request().Context(), req.Topic, req.Answers)
	return c.JSON(http.StatusOK, report)
}

type uploadResponse struct {
	Message        string                  `json:"message"`
	ProcessedFiles []string                `json:"processed_files"`
	FailedFiles    []ingestion.FileFailure `json:"failed_files"`
}

func (s *Server) handleUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
	}

	fileHeaders := form.File["documents"]
	if len(fileHeaders) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "No files provided"})
	}

	files := make([]ingestion.File, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		src, err := header.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to read upload"})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to read upload"})
		}
		files = append(files, ingestion.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	report, err := s.service.IngestFiles(c.Request().Context(), files)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Message:        "Files processed",
		ProcessedFiles: report.ProcessedFiles,
		FailedFiles:    report.FailedFiles,
	})
}

type assessmentSummary struct {
	ID        uint64                   `json:"id"`
	Topic     string                   `json:"topic"`
	Type      string                   `json:"type"`
	Questions []core.GeneratedQuestion `json:"questions"`
	CreatedAt string                   `json:"created_at"`
}

func toSummary(a *core.Assessment) assessmentSummary {
	return assessmentSummary{
		ID:        uint64(a.Id),
		Topic:     a.Topic,
		Type:      string(a.Type),
		Questions: a.Questions,
		CreatedAt: a.InsertedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleRecent(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
		}
		limit = parsed
	}

	assessments, err := s.service.RecentAssessments(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	summaries := make([]assessmentSummary, 0, len(assessments))
	for _, a := range assessments {
		summaries = append(summaries, toSummary(a))
	}
	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleGet(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid assessment id"})
	}

	a, err := s.service.GetAssessment(c.Request().Context(), core.ID(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "assessment not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, toSummary(a))
}
