package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	localcontext "github.com/rahul4469/securelink/context"
	"github.com/rahul4469/securelink/internal/models"
)

// ChatCompleter is the external model the analyzer delegates judgment to.
type ChatCompleter interface {
	Configured() bool
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Outcome records which path produced a verdict.
type Outcome string

const (
	OutcomeModel               Outcome = "model"
	OutcomeRepaired            Outcome = "repaired"
	OutcomeUpstreamUnavailable Outcome = "upstream_unavailable"
	OutcomeEmptyResponse       Outcome = "empty_response"
	OutcomeInternalError       Outcome = "internal_error"
)

// URLAnalyzer validates a URL, asks the model for a verdict and
// normalizes whatever comes back into a well-formed result.
type URLAnalyzer struct {
	client  ChatCompleter
	parsers []ResultParser
	metrics *Metrics
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewURLAnalyzer wires an analyzer. With no parsers given it uses DefaultParsers.
// metrics may be nil.
func NewURLAnalyzer(client ChatCompleter, logger *zap.Logger, metrics *Metrics, parsers ...ResultParser) *URLAnalyzer {
	if len(parsers) == 0 {
		parsers = DefaultParsers()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &URLAnalyzer{
		client:  client,
		parsers: parsers,
		metrics: metrics,
		logger:  logger.Named("analyzer"),
		tracer:  otel.Tracer("github.com/rahul4469/securelink/internal/services"),
	}
}

// HasAPIKey reports whether the provider credential is configured.
func (a *URLAnalyzer) HasAPIKey() bool {
	return a.client.Configured()
}

// Analyze returns a verdict for rawURL.
//
// Only request errors (models.IsBadRequest) and a missing credential
// (models.ErrAPIKeyMissing) are returned. Every provider or parsing
// failure degrades to a canned suspicious verdict with a nil error.
func (a *URLAnalyzer) Analyze(ctx context.Context, rawURL string) (*models.AnalysisResult, error) {
	log := a.logger.With(zap.String("request_id", localcontext.ContextGetRequestID(ctx)))

	target, err := models.ParseTarget(rawURL)
	if err != nil {
		a.metrics.Rejected(rejectReason(err))
		log.Info("rejected URL", zap.Error(err))
		return nil, err
	}

	if !a.client.Configured() {
		a.metrics.Rejected(ReasonAPIKeyMissing)
		log.Error("chat provider API key not configured")
		return nil, models.ErrAPIKeyMissing
	}

	result, outcome := a.evaluate(ctx, log, target)
	a.metrics.Analysis(outcome)

	log.Info("analysis complete",
		zap.String("url", target.Raw),
		zap.String("outcome", string(outcome)),
		zap.String("status", string(result.Status)),
		zap.Int("confidence", result.Confidence),
	)

	return result, nil
}

// completion is the provider's answer for one call.
type completion struct {
	content string
	err     error
}

// recoveryStep either settles the verdict or passes control to the next step.
type recoveryStep func(log *zap.Logger, c completion) (*models.AnalysisResult, Outcome, bool)

func (a *URLAnalyzer) evaluate(ctx context.Context, log *zap.Logger, target *models.Target) (result *models.AnalysisResult, outcome Outcome) {
	ctx, span := a.tracer.Start(ctx, "URLAnalyzer.Analyze")
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("analysis panicked", zap.Any("panic", rec), zap.Stack("stack"))
			result, outcome = models.InternalErrorResult(), OutcomeInternalError
		}
		span.SetAttributes(attribute.String("securelink.outcome", string(outcome)))
		span.End()
	}()

	start := time.Now()
	content, err := a.client.Complete(ctx, SystemPrompt, BuildUserPrompt(target))
	a.metrics.ObserveUpstream(time.Since(start))

	c := completion{content: content, err: err}
	steps := []recoveryStep{
		upstreamUnavailable,
		unexpectedFailure,
		emptyContent,
		a.parseContent,
	}
	for _, step := range steps {
		if result, outcome, ok := step(log, c); ok {
			return result, outcome
		}
	}

	return models.InternalErrorResult(), OutcomeInternalError
}

func upstreamUnavailable(log *zap.Logger, c completion) (*models.AnalysisResult, Outcome, bool) {
	if c.err == nil || !errors.Is(c.err, ErrUpstreamUnavailable) {
		return nil, "", false
	}
	log.Warn("chat provider unavailable", zap.Error(c.err))
	return models.UpstreamUnavailableResult(), OutcomeUpstreamUnavailable, true
}

func unexpectedFailure(log *zap.Logger, c completion) (*models.AnalysisResult, Outcome, bool) {
	if c.err == nil {
		return nil, "", false
	}
	log.Error("chat completion failed", zap.Error(c.err))
	return models.InternalErrorResult(), OutcomeInternalError, true
}

// emptyContent only catches a missing answer. Whitespace is still content
// and falls through to the parsers.
func emptyContent(log *zap.Logger, c completion) (*models.AnalysisResult, Outcome, bool) {
	if c.content != "" {
		return nil, "", false
	}
	log.Warn("chat provider returned empty content")
	return models.EmptyResponseResult(), OutcomeEmptyResponse, true
}

// parseContent tries each parser in order. The first parser is the strict
// one; a verdict from any later parser counts as repaired.
func (a *URLAnalyzer) parseContent(log *zap.Logger, c completion) (*models.AnalysisResult, Outcome, bool) {
	for i, parser := range a.parsers {
		parsed, err := parser.Parse(c.content)
		if err != nil {
			log.Debug("parser rejected content",
				zap.String("parser", parser.Name()),
				zap.Error(err),
				zap.String("content", truncate(c.content, 2048)),
			)
			continue
		}

		sanitized := parsed.Sanitize()
		outcome := OutcomeRepaired
		if i == 0 {
			outcome = OutcomeModel
		}
		return &sanitized, outcome, true
	}

	log.Warn("no parser accepted content", zap.String("content", truncate(c.content, 2048)))
	fallback := models.MalformedResponseResult("", 0).Sanitize()
	return &fallback, OutcomeRepaired, true
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, models.ErrURLRequired):
		return ReasonURLRequired
	case errors.Is(err, models.ErrInvalidURL):
		return ReasonInvalidURL
	case errors.Is(err, models.ErrInvalidBody):
		return ReasonInvalidBody
	default:
		return "other"
	}
}
