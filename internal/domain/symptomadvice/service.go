package symptomadvice

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/yanqian/hermate-ai/pkg/errors"
)

// CodeServiceUnavailable marks generator errors raised by the AI provider itself:
// transport failures, quota, auth, timeouts. Any other generator error is unexpected.
const CodeServiceUnavailable = "llm_unavailable"

// Service turns validated symptom payloads into advice.
type Service interface {
	Advise(ctx context.Context, payload SymptomPayload) Result
}

// Generator is the external AI capability: a system instruction plus a prompt in, raw text out.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (Completion, error)
}

type service struct {
	generator Generator
	logger    *slog.Logger
}

// NewService wires up the symptom advice domain.
func NewService(generator Generator, logger *slog.Logger) Service {
	return &service{
		generator: generator,
		logger:    logger.With("component", "symptomadvice.service"),
	}
}

func (s *service) Advise(ctx context.Context, payload SymptomPayload) Result {
	completion, err := s.generate(ctx, BuildPrompt(payload))
	if err != nil {
		if apperrors.IsCode(err, CodeServiceUnavailable) {
			s.logger.Error("ai provider error", "code", apperrors.CodeOf(err), "error", err)
			return Result{Advice: Fallback(MessageServiceFailure), Failure: FailureService}
		}
		s.logger.Error("unexpected error generating advice", "error", err)
		return Result{Advice: Fallback(MessageUnexpectedFailure), Failure: FailureUnexpected}
	}

	advice, err := Normalize(completion.Text)
	if err != nil {
		s.logger.Warn("failed to parse ai response", "error", err, "raw", completion.Text)
		return Result{Advice: Fallback(MessageParseFailure), Failure: FailureParse}
	}

	s.logger.Info("symptom advice generated", "severity_level", advice.SeverityLevel, "usage", completion.Usage)
	return Result{Advice: advice}
}

func (s *service) generate(ctx context.Context, prompt string) (completion Completion, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return s.generator.Generate(ctx, SystemInstruction, prompt)
}
