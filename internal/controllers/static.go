package controllers

import (
	"net/http"

	"github.com/rahul4469/securelink/internal/models"
	"github.com/rahul4469/securelink/internal/views"
)

// StaticController handles the landing page.
type StaticController struct {
	templates StaticTemplates
	dev       bool
}

// StaticTemplates holds templates for static pages.
type StaticTemplates struct {
	Home *views.Template
}

// NewStaticController creates a new StaticController.
func NewStaticController(templates StaticTemplates, dev bool) *StaticController {
	return &StaticController{
		templates: templates,
		dev:       dev,
	}
}

// HomeData holds data for the home page template.
type HomeData struct {
	URL      string
	Result   *models.AnalysisResult
	Features []Feature
}

// Feature represents a feature displayed on the home page.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Features returns the cards shown under the form.
func Features() []Feature {
	return []Feature{
		{
			Icon:        "shield",
			Title:       "AI-Powered Detection",
			Description: "Advanced machine learning algorithms analyze URLs for potential threats and malicious patterns",
		},
		{
			Icon:        "globe",
			Title:       "Real-time Analysis",
			Description: "Instant security assessments with comprehensive threat intelligence and risk scoring",
		},
		{
			Icon:        "lock",
			Title:       "Comprehensive Scanning",
			Description: "Multi-layered security checks including domain reputation, SSL analysis, and pattern detection",
		},
	}
}

// GetHome renders the home page with an empty form.
func (c *StaticController) GetHome(w http.ResponseWriter, r *http.Request) {
	data := homePage(r, c.dev, HomeData{})
	c.templates.Home.ExecuteHTTP(w, r, data)
}

// homePage builds the template data shared by GET / and POST /analyze.
func homePage(r *http.Request, dev bool, home HomeData) *views.TemplateData {
	home.Features = Features()
	return &views.TemplateData{
		Title:         "SecureLink AI - URL Security Analysis",
		Description:   "Advanced AI analysis to detect spam, phishing, and malicious URLs before you click",
		CSRFField:     csrfField(r),
		Data:          home,
		IsDevelopment: dev,
	}
}

// HealthCheck returns a simple health status for monitoring.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
