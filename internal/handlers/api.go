package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bizlens/internal/analysis"
	"bizlens/internal/errors"
	"bizlens/internal/observability"
	"bizlens/internal/session"
)

const maxUploadBytes = 64 << 20

type APIHandlers struct {
	session *session.Session
	logger  *slog.Logger
}

func NewAPIHandlers(sess *session.Session, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		session: sess,
		logger:  logger,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Intent string              `json:"intent"`
	Text   string              `json:"text"`
	Chart  *analysis.ChartSpec `json:"chart,omitempty"`
	Table  *analysis.TableData `json:"table,omitempty"`
}

func (h *APIHandlers) HandleAsk(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Invalid request body"), requestID)
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		errors.WriteError(w, h.logger, errors.Validation("Question must not be empty"), requestID)
		return
	}

	result, err := h.session.Ask(question)
	if err != nil {
		if err == session.ErrNoTable {
			errors.WriteError(w, h.logger, errors.BadRequest("No data loaded. Upload a CSV file first."), requestID)
			return
		}
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Analysis failed"), requestID)
		return
	}

	errors.WriteSuccess(w, askResponse{
		Intent: string(analysis.Classify(question)),
		Text:   result.Text,
		Chart:  result.Chart,
		Table:  result.Table,
	})
}

func (h *APIHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Invalid multipart upload"), requestID)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("Missing 'file' form field"), requestID)
		return
	}
	defer file.Close()

	table, err := h.session.Load(r.Context(), file)
	if err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, "Could not parse CSV file"), requestID)
		return
	}

	h.logger.Info("table uploaded",
		"filename", header.Filename,
		"records", table.Len(),
		"request_id", requestID,
	)

	overview, err := h.session.Overview()
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Overview unavailable"), requestID)
		return
	}
	errors.WriteSuccess(w, overview)
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	overview, err := h.session.Overview()
	if err != nil {
		errors.WriteError(w, h.logger, errors.NotFound("No data loaded"), requestID)
		return
	}

	headers := map[string]string{
		"Cache-Control": "no-store",
	}
	errors.WriteSuccessWithHeaders(w, overview, headers)
}

func (h *APIHandlers) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	questions := h.session.Questions()
	if questions == nil {
		questions = []session.QuickQuestion{}
	}
	errors.WriteSuccess(w, questions)
}

func (h *APIHandlers) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.session.Transcript())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.session.Stats())
}
