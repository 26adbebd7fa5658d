// ABOUTME: HTTP client for the text-generation backend
// ABOUTME: Single Generate call with bounded timeout and an unavailable error class

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable indicates the backend could not be reached or refused to
// serve the request (network failure, 5xx, quota). Callers degrade to a
// templated reply instead of propagating.
var ErrUnavailable = errors.New("generation backend unavailable")

// Generator produces text for a prompt. Implemented by Client; handlers
// depend on this interface so tests can substitute a stub.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client talks to the generation backend over HTTP.
type Client struct {
	baseURL string
	model   string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a backend client. The timeout bounds every Generate call.
func NewClient(baseURL, model string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "genai"),
	}
}

// generateRequest is the wire format for a completion request.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the wire format for a completion response.
type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate sends the prompt to the backend and returns the generated text.
// Connection failures and server errors return ErrUnavailable; the context
// deadline (and the client timeout) bound the call.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "error", err)
		if ctx.Err() != nil {
			return "", fmt.Errorf("backend call: %w", ctx.Err())
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("backend returned error status", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if gr.Error != "" {
		return "", fmt.Errorf("backend error: %s", gr.Error)
	}

	c.logger.Debug("generation complete",
		"model", c.model,
		"prompt_len", len(prompt),
		"duration", time.Since(start))

	return gr.Response, nil
}
