package models

import "strings"

// Status is the verdict the model assigns to a URL.
type Status string

const (
	StatusSafe       Status = "safe"
	StatusSuspicious Status = "suspicious"
	StatusDangerous  Status = "dangerous"
)

// Bounds and defaults applied by Sanitize.
const (
	MinConfidence     = 1
	MaxConfidence     = 100
	DefaultConfidence = 70
)

const (
	DefaultRecommendation = "Proceed with appropriate security measures"
	DefaultDetails        = "Comprehensive security analysis has been completed. Please review the findings and recommendations above."
)

// DefaultReasons returns the findings list used when the model gave none.
func DefaultReasons() []string {
	return []string{
		"URL structure analysis completed",
		"Security indicators checked",
		"Domain reputation assessed",
		"Safety recommendation provided",
	}
}

// Valid reports whether s is one of the three known verdicts.
func (s Status) Valid() bool {
	switch s {
	case StatusSafe, StatusSuspicious, StatusDangerous:
		return true
	default:
		return false
	}
}

// ParseStatus matches s exactly; model output like "Safe" is not accepted.
func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	return status, status.Valid()
}

// AnalysisRequest is the inbound payload of the analyze endpoint.
type AnalysisRequest struct {
	URL string `json:"url"`
}

// AnalysisResult is the verdict returned to callers.
// Every result leaving the analyzer satisfies Valid().
type AnalysisResult struct {
	Status         Status   `json:"status"`
	Confidence     int      `json:"confidence"`
	Reasons        []string `json:"reasons"`
	Recommendation string   `json:"recommendation"`
	Details        string   `json:"details"`
}

// Sanitize returns a copy with every out-of-domain field replaced by its default.
// Fields are checked independently, and applying it twice yields the same value.
func (r AnalysisResult) Sanitize() AnalysisResult {
	out := AnalysisResult{
		Status:         r.Status,
		Confidence:     r.Confidence,
		Recommendation: r.Recommendation,
		Details:        r.Details,
	}

	if !out.Status.Valid() {
		out.Status = StatusSuspicious
	}

	if out.Confidence < MinConfidence || out.Confidence > MaxConfidence {
		out.Confidence = DefaultConfidence
	}

	for _, reason := range r.Reasons {
		if strings.TrimSpace(reason) != "" {
			out.Reasons = append(out.Reasons, reason)
		}
	}
	if len(out.Reasons) == 0 {
		out.Reasons = DefaultReasons()
	}

	if strings.TrimSpace(out.Recommendation) == "" {
		out.Recommendation = DefaultRecommendation
	}
	if strings.TrimSpace(out.Details) == "" {
		out.Details = DefaultDetails
	}

	return out
}

// Valid reports whether all five fields already hold in-domain values.
func (r AnalysisResult) Valid() bool {
	if !r.Status.Valid() {
		return false
	}
	if r.Confidence < MinConfidence || r.Confidence > MaxConfidence {
		return false
	}
	if len(r.Reasons) == 0 {
		return false
	}
	for _, reason := range r.Reasons {
		if strings.TrimSpace(reason) == "" {
			return false
		}
	}
	return strings.TrimSpace(r.Recommendation) != "" && strings.TrimSpace(r.Details) != ""
}
