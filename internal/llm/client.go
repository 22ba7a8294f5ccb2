// Package llm wraps an Ollama-compatible text generation service used to
// enrich recommendations with narrative. It is strictly optional: every
// failure maps to agri.ErrUpstreamUnavailable and callers drop the
// enrichment rather than failing the request.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Kritansh-Tank/AgroInsight/internal/agri"
)

// Client calls the Ollama generate API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the given Ollama endpoint. Returns nil when
// baseURL is empty (enrichment disabled); a nil *Client is safe to call.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		return nil
	}
	if model == "" {
		model = "qwen2.5:0.5b"
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// Enrichment is a garnish; keep the call volume low.
		limiter: rate.NewLimiter(rate.Limit(0.5), 3),
	}
}

// Enabled reports whether the client is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	Stream      bool    `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends a prompt and returns the generated text. All failure paths
// wrap agri.ErrUpstreamUnavailable.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("%w: llm client not configured", agri.ErrUpstreamUnavailable)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %v", agri.ErrUpstreamUnavailable, err)
	}

	body, err := json.Marshal(generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: temperature,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", agri.ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", agri.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("llm request failed", "error", err)
		return "", fmt.Errorf("%w: %v", agri.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", agri.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: llm status %d: %s", agri.ErrUpstreamUnavailable, resp.StatusCode, respBody)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", agri.ErrUpstreamUnavailable, err)
	}
	return parsed.Response, nil
}
