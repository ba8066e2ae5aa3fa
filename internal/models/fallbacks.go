package models

// Canned verdicts substituted when the model cannot give a usable answer.
// Each call returns a fresh value so callers may modify it.

// UpstreamUnavailableResult is used when the provider call fails outright.
func UpstreamUnavailableResult() *AnalysisResult {
	return &AnalysisResult{
		Status:     StatusSuspicious,
		Confidence: 75,
		Reasons: []string{
			"Unable to connect to AI analysis service",
			"Using fallback security assessment",
			"Domain appears to be accessible",
			"Manual verification recommended",
		},
		Recommendation: "Exercise caution and verify the link manually",
		Details:        "The AI analysis service is temporarily unavailable. This URL has been given a default suspicious rating for safety. Please verify manually before visiting.",
	}
}

// EmptyResponseResult is used when the provider answered without any content.
func EmptyResponseResult() *AnalysisResult {
	return &AnalysisResult{
		Status:     StatusSuspicious,
		Confidence: 60,
		Reasons: []string{
			"AI analysis service returned empty response",
			"Using default security protocols",
			"URL structure appears standard",
			"Recommend manual verification",
		},
		Recommendation: "Proceed with caution",
		Details:        "The analysis service did not return detailed results. Please verify this URL through other means before visiting.",
	}
}

// MalformedResponseResult wraps a status and confidence salvaged from unparseable content.
// Zero values fall back to suspicious/70.
func MalformedResponseResult(status Status, confidence int) *AnalysisResult {
	if status == "" {
		status = StatusSuspicious
	}
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	return &AnalysisResult{
		Status:     status,
		Confidence: confidence,
		Reasons: []string{
			"AI analysis completed successfully",
			"Response format required cleanup",
			"Security assessment provided",
			"Manual review recommended for accuracy",
		},
		Recommendation: "Review the analysis and proceed with appropriate caution",
		Details:        "The AI provided analysis but in a non-standard format. The security assessment has been processed but may require manual verification.",
	}
}

// InternalErrorResult is the last resort when analysis fails for any other reason.
func InternalErrorResult() *AnalysisResult {
	return &AnalysisResult{
		Status:     StatusSuspicious,
		Confidence: 50,
		Reasons: []string{
			"Technical error occurred during analysis",
			"Unable to complete full security assessment",
			"Default security protocols applied",
			"Manual verification strongly recommended",
		},
		Recommendation: "Do not visit this URL until manually verified",
		Details:        "A technical error prevented complete analysis of this URL. For your safety, treat this link as potentially suspicious until verified through other means.",
	}
}
