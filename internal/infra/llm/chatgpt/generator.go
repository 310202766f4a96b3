package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/hermate-ai/internal/domain/symptomadvice"
	apperrors "github.com/yanqian/hermate-ai/pkg/errors"
	"github.com/yanqian/hermate-ai/pkg/metrics"
)

// Generator adapts the ChatGPT client to the symptom advice domain.
type Generator struct {
	client      *Client
	model       string
	temperature *float32
	timeout     time.Duration
}

// NewGenerator constructs the adapter. A nil temperature leaves the provider default.
func NewGenerator(client *Client, model string, temperature *float32, timeout time.Duration) *Generator {
	return &Generator{client: client, model: model, temperature: temperature, timeout: timeout}
}

// Generate sends the system instruction and prompt as a JSON-mode chat completion.
func (g *Generator) Generate(ctx context.Context, systemInstruction, prompt string) (symptomadvice.Completion, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model: g.model,
		Messages: []Message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature:    g.temperature,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return symptomadvice.Completion{}, classify(err)
	}
	if len(resp.Choices) == 0 {
		return symptomadvice.Completion{}, errors.New("chatgpt returned no choices")
	}

	model := resp.Model
	if model == "" {
		model = g.model
	}
	return symptomadvice.Completion{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: metrics.TokenUsage{
			Model:            model,
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func classify(err error) error {
	var (
		apiErr       *APIError
		transportErr *transportError
	)
	switch {
	case errors.As(err, &apiErr), errors.As(err, &transportErr),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Wrap(symptomadvice.CodeServiceUnavailable, "chatgpt request failed", err)
	}
	return fmt.Errorf("chatgpt chat completion: %w", err)
}

var _ symptomadvice.Generator = (*Generator)(nil)
