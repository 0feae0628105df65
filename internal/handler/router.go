package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	debateHandler "github.com/argumenta/backend/internal/handler/debate"
	middlewarePkg "github.com/argumenta/backend/internal/middleware"
	debateModel "github.com/argumenta/backend/internal/model/debate"
	"github.com/argumenta/backend/pkg/utils"
)

const (
	serviceName    = "Argumenta API - Chatbot de Debate"
	serviceVersion = "1.0.0"
)

// Options tunes router behavior that comes from configuration.
type Options struct {
	CORSAllowCredentials bool
}

// NewRouter wires HTTP routes to the debate service.
func NewRouter(debateSvc debateHandler.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(opts.CORSAllowCredentials))

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)

	debateHandler.New(debateSvc).RegisterRoutes(r)

	return r
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, debateModel.ServiceInfo{
		Message:   serviceName,
		Version:   serviceVersion,
		Endpoints: []string{"/chat", "/evaluate", "/start-debate", "/health"},
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, debateModel.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339Nano),
	})
}
