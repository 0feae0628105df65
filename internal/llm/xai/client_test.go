package xai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/argumenta/backend/internal/llm"
)

func newTestModel(t *testing.T, srv *httptest.Server, timeout time.Duration) *ChatModel {
	t.Helper()
	m, err := NewChatModel(&Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: timeout})
	require.NoError(t, err)
	return m
}

func TestCompletionsURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"", "https://api.x.ai/v1/chat/completions"},
		{"https://api.x.ai/v1", "https://api.x.ai/v1/chat/completions"},
		{"https://api.x.ai/v1/", "https://api.x.ai/v1/chat/completions"},
		{"http://localhost:9000/v1/chat/completions", "http://localhost:9000/v1/chat/completions"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, completionsURL(tc.base), "base=%q", tc.base)
	}
}

func TestNewChatModel_RequiresAPIKey(t *testing.T) {
	_, err := NewChatModel(&Config{APIKey: "  "})
	require.Error(t, err)

	_, err = NewChatModel(nil)
	require.Error(t, err)
}

func TestNewChatModel_Defaults(t *testing.T) {
	m, err := NewChatModel(&Config{APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, DefaultModel, m.model)
	require.Equal(t, DefaultTimeout, m.httpClient.Timeout)
}

func TestGenerate_SendsContractAndParsesReply(t *testing.T) {
	var got chatRequest
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hola"},"finish_reason":"stop"}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	m := newTestModel(t, srv, time.Second)
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	out, err := m.Generate(ctx, []*schema.Message{
		schema.SystemMessage("coach"),
		schema.UserMessage("hi"),
	}, model.WithTemperature(0.7), model.WithMaxTokens(500))
	require.NoError(t, err)

	require.Equal(t, "hola", out.Content)
	require.Equal(t, 42, out.ResponseMeta.Usage.TotalTokens)

	require.Equal(t, "Bearer test-key", headers.Get("Authorization"))
	require.Equal(t, "application/json", headers.Get("Content-Type"))
	require.Equal(t, "req-1", headers.Get("X-Request-ID"))

	require.Equal(t, DefaultModel, got.Model)
	require.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	require.Equal(t, chatMessage{Role: "system", Content: "coach"}, got.Messages[0])
	require.Equal(t, chatMessage{Role: "user", Content: "hi"}, got.Messages[1])
	require.NotNil(t, got.Temperature)
	require.InDelta(t, 0.7, *got.Temperature, 1e-6)
	require.NotNil(t, got.MaxTokens)
	require.Equal(t, 500, *got.MaxTokens)
}

func TestGenerate_OmitsMaxTokensWhenUnset(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	m := newTestModel(t, srv, time.Second)
	out, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")}, model.WithTemperature(0.3))
	require.NoError(t, err)
	require.Equal(t, 0, out.ResponseMeta.Usage.TotalTokens)

	_, hasMaxTokens := raw["max_tokens"]
	require.False(t, hasMaxTokens)
	require.Equal(t, false, raw["stream"])
}

func TestGenerate_NonOKStatusReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	m := newTestModel(t, srv, time.Second)
	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.Error(t, err)

	var statusErr *llm.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	require.Equal(t, `{"error":"rate limited"}`, statusErr.Body)
}

func TestGenerate_TimeoutIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	m := newTestModel(t, srv, 50*time.Millisecond)
	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.Error(t, err)
	require.ErrorIs(t, err, llm.ErrTimeout)
	require.True(t, llm.IsTimeout(err))
}

func TestGenerate_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":`))
	}))
	defer srv.Close()

	m := newTestModel(t, srv, time.Second)
	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode response")
	require.False(t, llm.IsTimeout(err))
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	m := newTestModel(t, srv, time.Second)
	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no choices")
}

func TestStreamAndToolsUnsupported(t *testing.T) {
	m, err := NewChatModel(&Config{APIKey: "k"})
	require.NoError(t, err)

	_, err = m.Stream(context.Background(), nil)
	require.Error(t, err)
	require.Error(t, m.BindTools(nil))
}
