package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yanqian/hermate-ai/internal/domain/symptomadvice"
	"github.com/yanqian/hermate-ai/internal/infra/config"
	"github.com/yanqian/hermate-ai/internal/infra/llm/chatgpt"
	"github.com/yanqian/hermate-ai/internal/infra/llm/gemini"
)

// provideGenerator selects the completion backend named by llm.provider.
func provideGenerator(cfg *config.Config, logger *slog.Logger) (symptomadvice.Generator, func(), error) {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(context.Background(), gemini.Config{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("gemini generator enabled", "model", cfg.LLM.Model)
		cleanup := func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close gemini client", "error", err)
			}
		}
		return client, cleanup, nil
	case config.ProviderOpenAI:
		client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("openai generator enabled", "model", cfg.LLM.Model)
		return chatgpt.NewGenerator(client, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.Timeout), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("llm provider %q not supported", cfg.LLM.Provider)
	}
}
