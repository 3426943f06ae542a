package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitflow/internal/config"
)

func testMessages() []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage("You write commit messages."),
		schema.UserMessage("diff --git a/main.go b/main.go"),
	}
}

// completionHandler answers chat completion requests with content
func completionHandler(t *testing.T, content string, seen *map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			body := map[string]any{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			body["authorization"] = r.Header.Get("Authorization")
			*seen = body
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "test-model",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`, content)
	}
}

func TestRemoteProvider_GenerateText(t *testing.T) {
	var seen map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", completionHandler(t, "[feature] add login", &seen))
	server := httptest.NewServer(mux)
	defer server.Close()

	temp := 0.2
	p := NewRemoteProvider("openai", "gpt-4o-mini", config.RemoteProvider{
		Kind:    "openai",
		APIKey:  "sk-test",
		BaseURL: server.URL + "/v1",
	}, &temp, 200)

	got, err := p.GenerateText(context.Background(), testMessages(), GenerateOptions{MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, "[feature] add login", got)

	assert.Equal(t, "Bearer sk-test", seen["authorization"])
	assert.Equal(t, "gpt-4o-mini", seen["model"])
	assert.InDelta(t, 0.2, seen["temperature"], 0.001)
	assert.Len(t, seen["messages"], 2)
}

func TestRemoteProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    ErrorKind
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`))
			},
			want: ErrorAuth,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`))
			},
			want: ErrorRateLimit,
		},
		{
			name: "insufficient balance",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusPaymentRequired)
				_, _ = w.Write([]byte(`{"error": {"message": "Insufficient Balance", "type": "unknown_error"}}`))
			},
			want: ErrorQuota,
		},
		{
			name:    "empty content",
			handler: completionHandler(t, "   ", nil),
			want:    ErrorEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewRemoteProvider("deepseek", "deepseek-chat", config.RemoteProvider{
				Kind:    "deepseek",
				APIKey:  "sk-test",
				BaseURL: server.URL,
			}, nil, 0)

			_, err := p.GenerateText(context.Background(), testMessages(), GenerateOptions{})
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err), err.Error())
		})
	}
}

func TestRemoteProvider_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	p := NewRemoteProvider("openai", "gpt-4o-mini", config.RemoteProvider{
		Kind:    "openai",
		APIKey:  "sk-test",
		BaseURL: server.URL,
	}, nil, 0, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := p.GenerateText(context.Background(), testMessages(), GenerateOptions{})
	require.Error(t, err)
	assert.Equal(t, ErrorTimeout, KindOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRemoteProvider_ValidateConfig(t *testing.T) {
	p := NewRemoteProvider("", "gpt-4o", config.RemoteProvider{Kind: "openai"}, nil, 0)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-4o", p.Model())

	err := p.ValidateConfig(context.Background())
	assert.Equal(t, ErrorAuth, KindOf(err))

	_, err = p.GenerateText(context.Background(), testMessages(), GenerateOptions{})
	assert.Equal(t, ErrorAuth, KindOf(err))

	p = NewRemoteProvider("openai", "gpt-4o", config.RemoteProvider{Kind: "openai", APIKey: "sk"}, nil, 0)
	assert.NoError(t, p.ValidateConfig(context.Background()))
}

func TestSampling_Merge(t *testing.T) {
	low, high := 0.1, 0.9

	assert.Empty(t, sampling{}.merge(GenerateOptions{}))
	assert.Len(t, sampling{temperature: &low, maxTokens: 100}.merge(GenerateOptions{}), 2)
	assert.Len(t, sampling{}.merge(GenerateOptions{Temperature: &high}), 1)
	assert.Len(t, sampling{maxTokens: 100}.merge(GenerateOptions{MaxTokens: 20}), 1)
}

func TestWithTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, buildOptions(nil).timeout)
	assert.Equal(t, time.Second, buildOptions([]Option{WithTimeout(time.Second)}).timeout)
	assert.Equal(t, DefaultTimeout, buildOptions([]Option{WithTimeout(0)}).timeout)
}
