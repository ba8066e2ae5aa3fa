package services

import (
	"fmt"
	"strings"

	"github.com/rahul4469/securelink/internal/models"
)

// SystemPrompt fixes the analyst role and the JSON answer shape.
const SystemPrompt = `You are a cybersecurity expert specializing in URL analysis and spam detection. Analyze the provided URL and determine if it's potentially spam, malicious, or safe.

Consider these factors:
1. Domain reputation and legitimacy indicators
2. URL structure and suspicious patterns (redirects, shortened URLs, etc.)
3. Common spam/phishing indicators (typosquatting, suspicious TLDs, etc.)
4. SSL/HTTPS security status
5. Known malicious patterns and blacklists
6. Legitimate business indicators

Respond ONLY with a valid JSON object containing:
{
  "status": "safe" | "suspicious" | "dangerous",
  "confidence": 1-100,
  "reasons": ["reason1", "reason2", "reason3", "reason4"],
  "recommendation": "brief actionable recommendation for the user",
  "details": "detailed technical analysis explanation (2-3 sentences)"
}

Be thorough but concise. Focus on actionable security insights. Ensure the confidence score reflects the certainty of your analysis.`

// AnalysisChecklist is the list of dimensions the user prompt asks the model to cover.
var AnalysisChecklist = []string{
	"Domain legitimacy and reputation",
	"URL structure and potential redirects",
	"SSL certificate status",
	"Known threat indicators",
	"Phishing/spam patterns",
	"Business legitimacy signals",
}

// BuildUserPrompt creates the per-request prompt for target.
// Host hints are context only; no verdict is formed locally.
func BuildUserPrompt(target *models.Target) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this URL for spam/malicious content: %s\n", target.Raw)

	if target.IsInternationalized() {
		fmt.Fprintf(&b, "\nHost (punycode): %s\nHost (unicode): %s\n", target.ASCIIHost, target.UnicodeHost)
	}
	if target.Host != "" && !target.IsHTTPS() {
		fmt.Fprintf(&b, "Transport: %s (not HTTPS)\n", target.Scheme)
	}
	if target.RegistrableDomain != "" && target.RegistrableDomain != target.Host {
		fmt.Fprintf(&b, "Registrable domain: %s\n", target.RegistrableDomain)
	}

	b.WriteString("\nPlease perform a comprehensive security analysis considering:\n")
	for _, item := range AnalysisChecklist {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	b.WriteString("\nProvide your analysis in the specified JSON format.")

	return b.String()
}
