package debate

import "fmt"

// Role identifies who authored a message in the debate transcript.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the roles the completion API accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Message is a single turn supplied by the client.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
)

// ChatRequest carries the debate transcript for one coaching turn.
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Topic       string    `json:"topic,omitempty"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// NewChatRequest returns a request with the documented defaults applied.
// Decoding a JSON body on top of it keeps defaults for absent fields.
func NewChatRequest() ChatRequest {
	return ChatRequest{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Validate checks every message role.
func (r ChatRequest) Validate() error {
	for i, m := range r.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("messages[%d]: invalid role %q", i, m.Role)
		}
	}
	return nil
}

// EvaluateRequest asks for a structured assessment of one argument.
type EvaluateRequest struct {
	Argument string `json:"argument"`
	Topic    string `json:"topic,omitempty"`
}

// ChatResponse is the coach's reply to a chat turn.
type ChatResponse struct {
	Response   string `json:"response"`
	TokensUsed int    `json:"tokens_used"`
	Timestamp  string `json:"timestamp"`
}

// Structure grades how complete an argument is.
type Structure string

const (
	StructureComplete Structure = "Completo"
	StructurePartial  Structure = "Parcial"
	StructureBasic    Structure = "Básico"
)

// ParseStructure maps raw model output onto a known category, falling back to Básico.
func ParseStructure(raw string) Structure {
	switch s := Structure(raw); s {
	case StructureComplete, StructurePartial, StructureBasic:
		return s
	default:
		return StructureBasic
	}
}

// EvaluationResponse is the structured verdict for an argument.
type EvaluationResponse struct {
	Score        int       `json:"score"`
	Structure    Structure `json:"structure"`
	Fallacies    []string  `json:"fallacies"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	TokensEarned int       `json:"tokens_earned"`
	Feedback     string    `json:"feedback"`
}

// DebateOpening is the model's first contrary argument on a new topic.
type DebateOpening struct {
	OpeningArgument string `json:"opening_argument"`
	Topic           string `json:"topic"`
	Timestamp       string `json:"timestamp"`
}

// ServiceInfo is returned from the root endpoint.
type ServiceInfo struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// HealthStatus is returned from the health endpoint.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
