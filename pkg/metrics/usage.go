package metrics

import "log/slog"

// TokenUsage captures provider reported token counts for one model call.
type TokenUsage struct {
	Model            string `json:"model,omitempty"`
	PromptTokens     int    `json:"promptTokens"`
	CompletionTokens int    `json:"completionTokens,omitempty"`
	TotalTokens      int    `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// LogValue renders usage as a slog group.
func (u TokenUsage) LogValue() slog.Value {
	if u.IsZero() {
		return slog.GroupValue(slog.String("model", u.Model))
	}
	return slog.GroupValue(
		slog.String("model", u.Model),
		slog.Int("prompt_tokens", u.PromptTokens),
		slog.Int("completion_tokens", u.CompletionTokens),
		slog.Int("total_tokens", u.TotalTokens),
	)
}
