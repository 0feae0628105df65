package debate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/argumenta/backend/internal/llm"
	"github.com/argumenta/backend/internal/model/debate"
	"github.com/argumenta/backend/pkg/utils"
)

const (
	upstreamErrorPrefix   = "Error de xAI: "
	upstreamTimeoutDetail = "Timeout al conectar con xAI"
)

// Service is the debate behavior the handler exposes over HTTP.
type Service interface {
	Chat(ctx context.Context, req debate.ChatRequest) (debate.ChatResponse, error)
	Evaluate(ctx context.Context, req debate.EvaluateRequest) (debate.EvaluationResponse, error)
	StartDebate(ctx context.Context, topic string) (debate.DebateOpening, error)
}

// Handler 辩论教练的HTTP处理器
type Handler struct {
	svc Service
}

// New 创建辩论处理器
func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册辩论相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/evaluate", h.handleEvaluate)
	r.Post("/start-debate", h.handleStartDebate)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	req := debate.NewChatRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.Messages == nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "messages is required")
		return
	}
	if err := req.Validate(); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := h.svc.Chat(r.Context(), req)
	if err != nil {
		respondUpstreamFailure(w, "chat", "Error interno", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req debate.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Argument) == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "argument is required")
		return
	}

	resp, err := h.svc.Evaluate(r.Context(), req)
	if err != nil {
		respondUpstreamFailure(w, "evaluate", "Error al evaluar", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStartDebate(w http.ResponseWriter, r *http.Request) {
	topic, err := readTopic(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := h.svc.StartDebate(r.Context(), topic)
	if err != nil {
		respondUpstreamFailure(w, "start-debate", "Error al iniciar debate", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// readTopic accepts the topic as a query parameter, a form field or a JSON
// body of the form {"topic": "..."}.
func readTopic(r *http.Request) (string, error) {
	if topic := strings.TrimSpace(r.URL.Query().Get("topic")); topic != "" {
		return topic, nil
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			Topic string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			return "", errors.New("invalid request body")
		}
		if topic := strings.TrimSpace(payload.Topic); topic != "" {
			return topic, nil
		}
		return "", errors.New("topic is required")
	}

	if topic := strings.TrimSpace(r.FormValue("topic")); topic != "" {
		return topic, nil
	}
	return "", errors.New("topic is required")
}

// respondUpstreamFailure maps completion failures onto HTTP statuses: upstream
// statuses pass through, timeouts become 504 and everything else is a 500.
func respondUpstreamFailure(w http.ResponseWriter, op, internalPrefix string, err error) {
	var statusErr *llm.StatusError
	switch {
	case errors.As(err, &statusErr):
		log.Printf("[%s] upstream status %d", op, statusErr.StatusCode)
		status := statusErr.StatusCode
		if status < 100 || status > 599 {
			status = http.StatusBadGateway
		}
		utils.RespondError(w, status, upstreamErrorPrefix+statusErr.Body)
	case llm.IsTimeout(err):
		log.Printf("[%s] upstream timeout: %v", op, err)
		utils.RespondError(w, http.StatusGatewayTimeout, upstreamTimeoutDetail)
	default:
		log.Printf("[%s] failed: %v", op, err)
		utils.RespondError(w, http.StatusInternalServerError, fmt.Sprintf("%s: %v", internalPrefix, err))
	}
}
