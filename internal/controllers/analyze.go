package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	localcontext "github.com/rahul4469/securelink/context"
	"github.com/rahul4469/securelink/internal/models"
	"github.com/rahul4469/securelink/internal/services"
	"github.com/rahul4469/securelink/internal/views"
)

// maxBodyBytes caps the JSON request body.
const maxBodyBytes = 64 << 10

// Form messages shown before the analyzer is called.
const (
	msgEnterURL   = "Please enter a URL to analyze"
	msgInvalidURL = "Please enter a valid URL (include http:// or https://)"
)

// Analyzer produces verdicts. *services.URLAnalyzer implements it.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (*models.AnalysisResult, error)
	HasAPIKey() bool
}

// AnalyzeController serves the analysis endpoint and the form that posts to it.
type AnalyzeController struct {
	analyzer  Analyzer
	metrics   *services.Metrics
	logger    *zap.Logger
	templates AnalyzeTemplates
	dev       bool
	now       func() time.Time
}

// AnalyzeTemplates holds the templates for analysis pages.
type AnalyzeTemplates struct {
	Home *views.Template
}

// NewAnalyzeController creates a new AnalyzeController. metrics may be nil.
func NewAnalyzeController(analyzer Analyzer, metrics *services.Metrics, logger *zap.Logger, templates AnalyzeTemplates, dev bool) *AnalyzeController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeController{
		analyzer:  analyzer,
		metrics:   metrics,
		logger:    logger.Named("analyze"),
		templates: templates,
		dev:       dev,
		now:       time.Now,
	}
}

// StatusResponse is the liveness answer of GET /api/analyze-url.
type StatusResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	HasAPIKey bool   `json:"hasApiKey"`
}

// ErrorResponse is the body of every non-200 API answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PostAnalyzeURL handles POST /api/analyze-url.
func (c *AnalyzeController) PostAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	rawURL, err := decodeAnalysisRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		c.reject(w, r, err)
		return
	}

	result, err := c.analyzer.Analyze(r.Context(), rawURL)
	if err != nil {
		c.writeAnalyzeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetAnalyzeURL handles GET /api/analyze-url.
func (c *AnalyzeController) GetAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Message:   "URL Analysis API is running",
		Timestamp: c.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		HasAPIKey: c.analyzer.HasAPIKey(),
	})
}

// PostAnalyze handles the HTML form submission.
func (c *AnalyzeController) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		c.renderForm(w, r, http.StatusBadRequest, HomeData{}, models.ErrInvalidBody.Error())
		return
	}

	rawURL := r.FormValue("url")
	home := HomeData{URL: rawURL}

	// Same checks the page runs before posting
	if strings.TrimSpace(rawURL) == "" {
		c.renderForm(w, r, http.StatusUnprocessableEntity, home, msgEnterURL)
		return
	}
	if _, err := models.ParseTarget(rawURL); err != nil {
		c.renderForm(w, r, http.StatusUnprocessableEntity, home, msgInvalidURL)
		return
	}

	result, err := c.analyzer.Analyze(r.Context(), rawURL)
	if err != nil {
		status := http.StatusInternalServerError
		if models.IsBadRequest(err) {
			status = http.StatusUnprocessableEntity
		}
		c.logger.Warn("form analysis failed",
			zap.String("request_id", localcontext.ContextGetRequestID(r.Context())),
			zap.Error(err),
		)
		c.renderForm(w, r, status, home, err.Error())
		return
	}

	home.Result = result
	c.templates.Home.ExecuteHTTP(w, r, homePage(r, c.dev, home))
}

func (c *AnalyzeController) renderForm(w http.ResponseWriter, r *http.Request, status int, home HomeData, msg string) {
	data := homePage(r, c.dev, home)
	data.Error = msg
	c.templates.Home.ExecuteHTTPWithStatus(w, r, status, data)
}

func (c *AnalyzeController) reject(w http.ResponseWriter, r *http.Request, err error) {
	reason := services.ReasonInvalidBody
	if errors.Is(err, models.ErrInvalidURL) {
		reason = services.ReasonInvalidURL
	}
	c.metrics.Rejected(reason)
	c.logger.Info("rejected request body",
		zap.String("request_id", localcontext.ContextGetRequestID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusBadRequest, rootCause(err))
}

// writeAnalyzeError maps analyzer errors to API status codes.
func (c *AnalyzeController) writeAnalyzeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case models.IsBadRequest(err):
		writeError(w, http.StatusBadRequest, rootCause(err))
	case models.IsServerConfiguration(err):
		writeError(w, http.StatusInternalServerError, rootCause(err))
	default:
		c.logger.Error("unexpected analyzer error",
			zap.String("request_id", localcontext.ContextGetRequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, errors.New("Internal server error"))
	}
}

// decodeAnalysisRequest extracts the url field from a JSON object body.
// Absent or falsy values (null, false, 0, "") become "" so the analyzer
// reports the URL as required. Any other non-string can never be a valid URL.
func decodeAnalysisRequest(body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidBody, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidBody, err)
	}
	if fields == nil {
		return "", fmt.Errorf("%w: null body", models.ErrInvalidBody)
	}

	value, ok := fields["url"]
	if !ok {
		return "", nil
	}

	var decoded any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidBody, err)
	}

	switch v := decoded.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	case bool:
		if !v {
			return "", nil
		}
	case float64:
		if v == 0 {
			return "", nil
		}
	}
	return "", &models.URLError{Input: string(value), Err: models.ErrInvalidURL}
}

// rootCause unwraps to the sentinel so API messages never carry the offending input.
func rootCause(err error) error {
	for _, sentinel := range []error{
		models.ErrInvalidBody,
		models.ErrURLRequired,
		models.ErrInvalidURL,
		models.ErrAPIKeyMissing,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func csrfField(r *http.Request) template.HTML {
	return csrf.TemplateField(r)
}
