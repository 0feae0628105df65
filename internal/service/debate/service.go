package debate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/argumenta/backend/internal/analysis/evaluation"
	"github.com/argumenta/backend/internal/model/debate"
)

const (
	evaluateTemperature = 0.3
	openingTemperature  = 0.8
)

// ErrEmptyReply is returned when the model answers with no message at all.
var ErrEmptyReply = errors.New("empty model reply")

// Generator is the slice of an eino chat model the service needs.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Service builds coaching prompts and relays them to the completion model.
type Service struct {
	chatModel Generator
	now       func() time.Time

	chatTemplate     prompt.ChatTemplate
	evaluateTemplate prompt.ChatTemplate
	openingTemplate  prompt.ChatTemplate
}

// NewService creates a debate service backed by chatModel.
func NewService(chatModel Generator) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("debate: chat model must not be nil")
	}

	return &Service{
		chatModel: chatModel,
		now:       time.Now,
		chatTemplate: prompt.FromMessages(
			schema.FString,
			schema.SystemMessage("{system}"),
			schema.MessagesPlaceholder("topic", true),
			schema.MessagesPlaceholder("history", true),
		),
		evaluateTemplate: prompt.FromMessages(
			schema.FString,
			schema.SystemMessage("{system}"),
			schema.MessagesPlaceholder("topic", true),
			schema.UserMessage(evaluateUserTemplate),
		),
		openingTemplate: prompt.FromMessages(
			schema.FString,
			schema.SystemMessage("{system}"),
			schema.UserMessage(openingUserTemplate),
		),
	}, nil
}

// Chat relays one coaching turn. Caller messages follow the coach prompt and
// the optional topic message in the order given.
func (s *Service) Chat(ctx context.Context, req debate.ChatRequest) (debate.ChatResponse, error) {
	messages, err := s.chatTemplate.Format(ctx, map[string]any{
		"system":  coachPrompt,
		"topic":   topicMessages(topicPrefix, req.Topic),
		"history": historyMessages(req.Messages),
	})
	if err != nil {
		return debate.ChatResponse{}, fmt.Errorf("format chat prompt: %w", err)
	}

	reply, err := s.generate(ctx, messages,
		model.WithTemperature(float32(req.Temperature)),
		model.WithMaxTokens(req.MaxTokens),
	)
	if err != nil {
		return debate.ChatResponse{}, err
	}

	log.Printf("[debate] chat reply: history=%d topic=%t tokens=%d", len(req.Messages), req.Topic != "", totalTokens(reply))
	return debate.ChatResponse{
		Response:   reply.Content,
		TokensUsed: totalTokens(reply),
		Timestamp:  s.timestamp(),
	}, nil
}

// Evaluate scores one argument. Caller-supplied sampling settings do not
// apply; evaluations always run at a fixed low temperature.
func (s *Service) Evaluate(ctx context.Context, req debate.EvaluateRequest) (debate.EvaluationResponse, error) {
	messages, err := s.evaluateTemplate.Format(ctx, map[string]any{
		"system":   evaluatorPrompt,
		"topic":    topicMessages(topicContextPrefix, req.Topic),
		"argument": req.Argument,
	})
	if err != nil {
		return debate.EvaluationResponse{}, fmt.Errorf("format evaluation prompt: %w", err)
	}

	reply, err := s.generate(ctx, messages, model.WithTemperature(evaluateTemperature))
	if err != nil {
		return debate.EvaluationResponse{}, err
	}

	result, err := evaluation.Parse(reply.Content)
	if err != nil {
		return debate.EvaluationResponse{}, err
	}

	log.Printf("[debate] evaluation: score=%d structure=%s fallacies=%d", result.Score, result.Structure, len(result.Fallacies))
	return result, nil
}

// StartDebate asks the model for an opening argument against topic.
func (s *Service) StartDebate(ctx context.Context, topic string) (debate.DebateOpening, error) {
	messages, err := s.openingTemplate.Format(ctx, map[string]any{
		"system": coachPrompt,
		"topic":  topic,
	})
	if err != nil {
		return debate.DebateOpening{}, fmt.Errorf("format opening prompt: %w", err)
	}

	reply, err := s.generate(ctx, messages, model.WithTemperature(openingTemperature))
	if err != nil {
		return debate.DebateOpening{}, err
	}

	return debate.DebateOpening{
		OpeningArgument: reply.Content,
		Topic:           topic,
		Timestamp:       s.timestamp(),
	}, nil
}

func (s *Service) generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	reply, err := s.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, ErrEmptyReply
	}
	return reply, nil
}

func (s *Service) timestamp() string {
	return s.now().Format(time.RFC3339Nano)
}

func topicMessages(prefix, topic string) []*schema.Message {
	if topic == "" {
		return nil
	}
	return []*schema.Message{schema.SystemMessage(prefix + topic)}
}

func historyMessages(messages []debate.Message) []*schema.Message {
	history := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, &schema.Message{
			Role:    schema.RoleType(m.Role),
			Content: m.Content,
		})
	}
	return history
}

func totalTokens(msg *schema.Message) int {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return 0
	}
	return msg.ResponseMeta.Usage.TotalTokens
}
