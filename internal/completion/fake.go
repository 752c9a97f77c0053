package completion

import (
	"context"
	"time"

	"github.com/promptpad/promptpad/internal/models"
)

// FakeClient is a canned-response Client for tests and offline demos
type FakeClient struct {
	// Response content returned for every call; the submitted text is
	// recorded in LastRequest.
	Content     string
	Err         error
	LastRequest Request
	Calls       int
}

// Complete returns the canned response or error
func (f *FakeClient) Complete(ctx context.Context, req Request) (*models.CompletionResult, error) {
	f.LastRequest = req
	f.Calls++

	if f.Err != nil {
		return nil, f.Err
	}

	return &models.CompletionResult{
		Choices: []models.Choice{
			{
				Message:      models.Message{Role: "assistant", Content: f.Content},
				FinishReason: "stop",
				Index:        0,
			},
		},
		Created: time.Now().Unix(),
		Model:   req.Model,
		Usage: models.Usage{
			PromptTokens:     len(req.Text) / 4,
			CompletionTokens: len(f.Content) / 4,
			TotalTokens:      (len(req.Text) + len(f.Content)) / 4,
		},
	}, nil
}
