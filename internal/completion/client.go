// Package completion wraps the remote chat-completions endpoint. Each call
// is exactly one HTTP POST: no retries, no streaming, no shared state
// between calls.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/models"
)

// DefaultEndpoint is the OpenAI-compatible chat completions URL used when
// no endpoint is configured.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Request carries the merged prompt text and the model to run it against
type Request struct {
	Text  string
	Model string
}

// Client is the contract the editor depends on for running completions
type Client interface {
	Complete(ctx context.Context, req Request) (*models.CompletionResult, error)
}

// HTTPClient implements Client against an OpenAI-compatible endpoint
type HTTPClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPClient creates a completion client. An empty endpoint falls back
// to DefaultEndpoint.
func NewHTTPClient(endpoint, apiKey string) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &HTTPClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 300 * time.Second},
	}
}

type wireRequest struct {
	Model    string           `json:"model"`
	Messages []models.Message `json:"messages"`
}

// wireResponse is the endpoint's response; on non-2xx statuses only the
// error field is expected to be populated.
type wireResponse struct {
	models.CompletionResult
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the merged text as a single user message and returns the
// structured result. Failures distinguish rejection by the endpoint
// (REMOTE_REJECTED), transport failure (NO_RESPONSE), and request
// construction failure (REQUEST_SETUP_FAILURE).
func (c *HTTPClient) Complete(ctx context.Context, req Request) (*models.CompletionResult, error) {
	body, err := json.Marshal(wireRequest{
		Model: req.Model,
		Messages: []models.Message{
			{Role: "user", Content: req.Text},
		},
	})
	if err != nil {
		return nil, errors.RequestSetupError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.RequestSetupError(err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.NoResponseError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NoResponseError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.RemoteRejectedError(rejectionMessage(resp, respBody)).
			WithContext("status", resp.StatusCode)
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, errors.RemoteRejectedError(fmt.Sprintf("malformed response body: %v", err))
	}

	if wire.Error != nil {
		return nil, errors.RemoteRejectedError(wire.Error.Message)
	}

	result := wire.CompletionResult
	return &result, nil
}

// rejectionMessage prefers the structured error body, falling back to the
// transport status text.
func rejectionMessage(resp *http.Response, body []byte) string {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != nil && wire.Error.Message != "" {
		return wire.Error.Message
	}
	return resp.Status
}
