package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rahul4469/securelink/internal/config"
)

// Upstream failure classes. Callers never see these; the analyzer
// turns them into canned verdicts.
var (
	ErrUpstreamUnavailable = errors.New("chat completion provider unavailable")
	ErrUpstreamDecode      = errors.New("chat completion response could not be decoded")
)

// maxResponseBytes caps how much of a provider answer is read.
const maxResponseBytes = 4 << 20

// OpenRouterClient handles OpenRouter chat-completion API interactions
type OpenRouterClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	appURL      string
	appTitle    string
	Client      *http.Client
}

// NewOpenRouterClient creates a chat client from the provider config.
// The transport is instrumented so trace context follows the outbound call.
func NewOpenRouterClient(cfg config.ProviderConfig) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		appURL:      cfg.AppURL,
		appTitle:    cfg.AppTitle,
		Client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Request to the provider
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// Message to the provider
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response from the provider
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Created int64  `json:"created"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Configured reports whether a bearer token is available.
func (c *OpenRouterClient) Configured() bool {
	return c.apiKey != ""
}

// Model returns the model identifier sent with each request.
func (c *OpenRouterClient) Model() string {
	return c.model
}

// Complete sends a system + user prompt pair and returns the first choice's content.
// A response without choices returns "" and no error.
func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("openrouter API key not configured")
	}

	reqBody := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	// OpenRouter-specific headers
	req.Header.Set("HTTP-Referer", c.appURL)
	req.Header.Set("X-Title", c.appTitle)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamDecode, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", nil
	}

	return chatResp.Choices[0].Message.Content, nil
}

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	Code int
	Body string
}

func (se *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", se.Code, se.Body)
}

func (se *StatusError) Unwrap() error {
	return ErrUpstreamUnavailable
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
