package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rahul4469/securelink/internal/models"
)

// ResultParser turns raw model content into a verdict.
// Results are not sanitized; the analyzer does that once for every parser.
type ResultParser interface {
	Name() string
	Parse(content string) (*models.AnalysisResult, error)
}

// DefaultParsers returns the strict parser followed by the regex salvage parser.
func DefaultParsers() []ResultParser {
	return []ResultParser{JSONParser{}, FieldExtractor{}}
}

var ErrNoJSONObject = errors.New("no JSON object in content")

var (
	fenceOpen  = regexp.MustCompile("```json\\n?")
	fenceClose = regexp.MustCompile("\\n?```")
)

// CleanJSONContent strips Markdown code fences, then drops everything
// before the first '{' and after the last '}'.
func CleanJSONContent(content string) string {
	s := fenceOpen.ReplaceAllString(content, "")
	s = fenceClose.ReplaceAllString(s, "")

	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	s = s[start:]

	end := strings.LastIndex(s, "}")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(s[:end+1])
}

// JSONParser decodes the object embedded in the content after cleanup.
type JSONParser struct{}

func (JSONParser) Name() string { return "json" }

// looseResult accepts any JSON type per field so a wrong type in one
// field does not discard the others.
type looseResult struct {
	Status         json.RawMessage `json:"status"`
	Confidence     json.RawMessage `json:"confidence"`
	Reasons        json.RawMessage `json:"reasons"`
	Recommendation json.RawMessage `json:"recommendation"`
	Details        json.RawMessage `json:"details"`
}

func (JSONParser) Parse(content string) (*models.AnalysisResult, error) {
	cleaned := CleanJSONContent(content)
	if cleaned == "" {
		return nil, ErrNoJSONObject
	}

	var raw looseResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("decode analysis JSON: %w", err)
	}

	return &models.AnalysisResult{
		Status:         models.Status(rawString(raw.Status)),
		Confidence:     rawConfidence(raw.Confidence),
		Reasons:        rawStrings(raw.Reasons),
		Recommendation: rawString(raw.Recommendation),
		Details:        rawString(raw.Details),
	}, nil
}

// rawString returns the value when it is a JSON string, "" otherwise.
func rawString(msg json.RawMessage) string {
	var s string
	if len(msg) == 0 || json.Unmarshal(msg, &s) != nil {
		return ""
	}
	return s
}

// rawConfidence accepts numbers and numeric strings. Values outside the
// allowed range come back as 0 so Sanitize replaces them.
func rawConfidence(msg json.RawMessage) int {
	if len(msg) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(msg, &f); err != nil {
		s := rawString(msg)
		if s == "" {
			return 0
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
	}

	if math.IsNaN(f) || f < models.MinConfidence || f > models.MaxConfidence {
		return 0
	}
	return int(math.Round(f))
}

// rawStrings keeps the string entries of a JSON array.
func rawStrings(msg json.RawMessage) []string {
	var items []any
	if len(msg) == 0 || json.Unmarshal(msg, &items) != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// FieldExtractor salvages status and confidence from text that is not valid
// JSON and fills the rest with the cleanup notice. It never fails.
type FieldExtractor struct{}

var (
	statusField     = regexp.MustCompile(`"status":\s*"(safe|suspicious|dangerous)"`)
	confidenceField = regexp.MustCompile(`"confidence":\s*(\d+)`)
)

func (FieldExtractor) Name() string { return "regex" }

func (FieldExtractor) Parse(content string) (*models.AnalysisResult, error) {
	var status models.Status
	if m := statusField.FindStringSubmatch(content); m != nil {
		status = models.Status(m[1])
	}

	var confidence int
	if m := confidenceField.FindStringSubmatch(content); m != nil {
		// Overflowing digit runs leave 0, which falls back to the default
		confidence, _ = strconv.Atoi(m[1])
	}

	return models.MalformedResponseResult(status, confidence), nil
}
