package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/hermate-ai/internal/domain/symptomadvice"
	apperrors "github.com/yanqian/hermate-ai/pkg/errors"
)

func TestGeneratorSuccess(t *testing.T) {
	var (
		got        ChatCompletionRequest
		gotPath    string
		gotAuth    string
		gotDecoded error
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDecoded = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"  {\"summary\":\"ok\"}  "}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer server.Close()

	gen := newTestGenerator(t, server.URL, time.Second)
	completion, err := gen.Generate(context.Background(), "system text", "user prompt")
	require.NoError(t, err)
	require.Equal(t, `{"summary":"ok"}`, completion.Text)
	require.Equal(t, 15, completion.Usage.TotalTokens)
	require.Equal(t, "gpt-4o-mini", completion.Usage.Model)

	require.Equal(t, "/chat/completions", gotPath)
	require.Equal(t, "Bearer sk-test", gotAuth)
	require.NoError(t, gotDecoded)

	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "system text", got.Messages[0].Content)
	require.Equal(t, "user prompt", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	require.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestGeneratorStatusErrorIsServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(t, server.URL, time.Second).Generate(context.Background(), "s", "p")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, symptomadvice.CodeServiceUnavailable))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}

func TestGeneratorTransportErrorIsServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestGenerator(t, url, time.Second).Generate(context.Background(), "s", "p")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, symptomadvice.CodeServiceUnavailable))
}

func TestGeneratorTimeoutIsServiceFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := newTestGenerator(t, server.URL, 20*time.Millisecond).Generate(context.Background(), "s", "p")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, symptomadvice.CodeServiceUnavailable))
}

func TestGeneratorMalformedBodyIsUnexpected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestGenerator(t, server.URL, time.Second).Generate(context.Background(), "s", "p")
	require.Error(t, err)
	require.False(t, apperrors.IsCode(err, symptomadvice.CodeServiceUnavailable))
}

func TestGeneratorNoChoicesIsUnexpected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(t, server.URL, time.Second).Generate(context.Background(), "s", "p")
	require.Error(t, err)
	require.False(t, apperrors.IsCode(err, symptomadvice.CodeServiceUnavailable))
}

func TestGeneratorTemperature(t *testing.T) {
	zero := float32(0)
	cases := []struct {
		name        string
		temperature *float32
		want        string
	}{
		{name: "unset is omitted", temperature: nil, want: ""},
		{name: "zero is sent", temperature: &zero, want: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body map[string]json.RawMessage
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&body)
				_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{}"}}]}`))
			}))
			defer server.Close()

			client, err := NewClient("sk-test", server.URL)
			require.NoError(t, err)
			_, err = NewGenerator(client, "gpt-4o-mini", tc.temperature, time.Second).Generate(context.Background(), "s", "p")
			require.NoError(t, err)

			raw, ok := body["temperature"]
			if tc.want == "" {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			require.Equal(t, tc.want, string(raw))
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "")
	require.Error(t, err)
}

func newTestGenerator(t *testing.T, baseURL string, timeout time.Duration) *Generator {
	t.Helper()
	client, err := NewClient("sk-test", baseURL+"/")
	require.NoError(t, err)
	temperature := float32(0.2)
	return NewGenerator(client, "gpt-4o-mini", &temperature, timeout)
}
