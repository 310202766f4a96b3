package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yanqian/hermate-ai/internal/domain/symptomadvice"
	apperrors "github.com/yanqian/hermate-ai/pkg/errors"
	"github.com/yanqian/hermate-ai/pkg/metrics"
)

const (
	defaultModel     = "gemini-1.5-flash"
	defaultTimeout   = 60 * time.Second
	jsonResponseMIME = "application/json"
)

// Config carries the Gemini connection settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature *float32
	Timeout     time.Duration
}

// Client calls the Gemini API through the official SDK.
type Client struct {
	client      *genai.Client
	model       string
	temperature *float32
	timeout     time.Duration
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}, nil
}

// Generate sends one prompt with the given system instruction and returns the raw text.
func (c *Client) Generate(ctx context.Context, systemInstruction, prompt string) (symptomadvice.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// GenerativeModel is not safe to mutate concurrently, so each call gets its own.
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	model.ResponseMIMEType = jsonResponseMIME
	if c.temperature != nil {
		model.SetTemperature(*c.temperature)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return symptomadvice.Completion{}, classify(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return symptomadvice.Completion{}, err
	}
	return symptomadvice.Completion{
		Text:  strings.TrimSpace(text),
		Usage: usageFrom(c.model, resp),
	}, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}

func classify(err error) error {
	if isServiceError(err) {
		return apperrors.Wrap(symptomadvice.CodeServiceUnavailable, "gemini request failed", err)
	}
	return fmt.Errorf("gemini generate content: %w", err)
}

func isServiceError(err error) bool {
	var (
		apiErr    *apierror.APIError
		googleErr *googleapi.Error
	)
	switch {
	case errors.As(err, &apiErr), errors.As(err, &googleErr):
		return true
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		return true
	}
	return false
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("gemini returned an empty candidate")
	}
	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	if builder.Len() == 0 {
		return "", errors.New("generated content is not text")
	}
	return builder.String(), nil
}

func usageFrom(model string, resp *genai.GenerateContentResponse) metrics.TokenUsage {
	usage := metrics.TokenUsage{Model: model}
	if resp == nil || resp.UsageMetadata == nil {
		return usage
	}
	usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
	usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	return usage
}

var _ symptomadvice.Generator = (*Client)(nil)
