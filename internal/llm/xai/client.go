// Package xai implements an eino chat model on top of the xAI chat
// completions endpoint.
package xai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/argumenta/backend/internal/llm"
)

const (
	DefaultBaseURL = "https://api.x.ai/v1"
	DefaultModel   = "grok-4-fast-reasoning"
	DefaultTimeout = 30 * time.Second
)

// Config describes how to reach the completion API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Model       string        `json:"model"`
	Stream      bool          `json:"stream"`
	Temperature *float32      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatModel sends non-streaming chat completion requests.
type ChatModel struct {
	apiKey     string
	url        string
	model      string
	httpClient *http.Client
}

var _ model.ChatModel = (*ChatModel)(nil)

// NewChatModel validates cfg and builds a ChatModel.
func NewChatModel(cfg *Config) (*ChatModel, error) {
	if cfg == nil {
		return nil, errors.New("xai: config must not be nil")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("xai: api key must not be empty")
	}

	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = DefaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &ChatModel{
		apiKey:     apiKey,
		url:        completionsURL(cfg.BaseURL),
		model:      modelName,
		httpClient: httpClient,
	}, nil
}

func completionsURL(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}

// GetType names the backend for eino callbacks.
func (m *ChatModel) GetType() string {
	return "xAI"
}

// Generate performs one completion call and returns the first choice.
func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{Model: &m.model}, opts...)

	body, err := json.Marshal(m.buildRequest(input, options))
	if err != nil {
		return nil, fmt.Errorf("xai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("xai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("X-Request-ID", requestID(ctx))

	started := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		if llm.IsTimeout(err) {
			return nil, fmt.Errorf("xai: %w: %v", llm.ErrTimeout, err)
		}
		return nil, fmt.Errorf("xai: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if llm.IsTimeout(err) {
			return nil, fmt.Errorf("xai: %w: %v", llm.ErrTimeout, err)
		}
		return nil, fmt.Errorf("xai: read response: %w", err)
	}

	log.Printf("[xai] status=%d model=%s messages=%d elapsed=%s", resp.StatusCode, *options.Model, len(input), time.Since(started).Round(time.Millisecond))

	if resp.StatusCode != http.StatusOK {
		return nil, &llm.StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("xai: decode response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return nil, errors.New("xai: response has no choices")
	}

	choice := payload.Choices[0]
	meta := &schema.ResponseMeta{
		FinishReason: choice.FinishReason,
		Usage:        &schema.TokenUsage{},
	}
	if payload.Usage != nil {
		meta.Usage.PromptTokens = payload.Usage.PromptTokens
		meta.Usage.CompletionTokens = payload.Usage.CompletionTokens
		meta.Usage.TotalTokens = payload.Usage.TotalTokens
	}

	return &schema.Message{
		Role:         schema.Assistant,
		Content:      choice.Message.Content,
		ResponseMeta: meta,
	}, nil
}

// Stream is not offered by this backend.
func (m *ChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("xai: streaming is not supported")
}

// BindTools is not offered by this backend.
func (m *ChatModel) BindTools(_ []*schema.ToolInfo) error {
	return errors.New("xai: tool calling is not supported")
}

func (m *ChatModel) buildRequest(input []*schema.Message, options *model.Options) chatRequest {
	messages := make([]chatMessage, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	modelName := m.model
	if options.Model != nil && *options.Model != "" {
		modelName = *options.Model
	}

	return chatRequest{
		Messages:    messages,
		Model:       modelName,
		Stream:      false,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}
}

// requestID reuses the inbound chi request id so upstream logs can be
// correlated with ours.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
