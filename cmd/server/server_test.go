package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rahul4469/securelink/internal/config"
	"github.com/rahul4469/securelink/internal/middleware"
	"github.com/rahul4469/securelink/internal/models"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Security.CSRFKey = strings.Repeat("k", 32)
	// no API key and an unroutable provider: nothing here may reach the network
	cfg.Provider.BaseURL = "http://127.0.0.1:1"
	return cfg
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler, err := newRouter(testConfig(), zaptest.NewLogger(t), prometheus.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "securelink_upstream_request_duration_seconds")
}

func TestRouter_APIIsNotCSRFProtected(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/analyze-url", "application/json", strings.NewReader(`{"url":"https://example.com"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Server configuration error: API key missing"}`, string(body))
}

func TestRouter_HomeCarriesCSRFToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `name="gorilla.csrf.Token"`)
}

func TestRouter_FormRequiresCSRFToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.PostForm(srv.URL+"/analyze", url.Values{"url": {"https://example.com"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRenderVerdict(t *testing.T) {
	result := &models.AnalysisResult{
		Status:         models.StatusDangerous,
		Confidence:     93,
		Reasons:        []string{"Lookalike domain", "Fresh registration"},
		Recommendation: "Do not visit",
		Details:        "Phishing kit detected.",
	}

	out := renderVerdict("https://paypa1.example", result)

	assert.Contains(t, out, "DANGEROUS")
	assert.Contains(t, out, "93% confidence")
	assert.Contains(t, out, "https://paypa1.example")
	assert.Contains(t, out, "Lookalike domain")
	assert.Contains(t, out, "Fresh registration")
	assert.Contains(t, out, "Do not visit")
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig()

	l, err := newLogger(cfg, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))

	l, err = newLogger(cfg, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))

	cfg.Log.Level = "loud"
	_, err = newLogger(cfg, false)
	assert.Error(t, err)
}
