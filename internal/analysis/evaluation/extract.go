// Package evaluation turns free-form evaluator replies into structured scores.
package evaluation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/argumenta/backend/internal/model/debate"
)

// ErrNoJSONObject means the text has no "{ ... }" span at all.
var ErrNoJSONObject = errors.New("missing json object")

const (
	defaultScore    = 50
	defaultFeedback = "Argumento recibido."

	fallbackTokensEarned = 3
	fallbackFeedbackLen  = 100
)

// ExtractEmbeddedJSON returns the span between the first "{" and the last "}"
// of text when it decodes as a JSON object. A missing span yields
// ErrNoJSONObject; a span that does not decode yields the decoder error.
func ExtractEmbeddedJSON(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSONObject
	}

	candidate := text[start : end+1]
	var object map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &object); err != nil {
		return nil, fmt.Errorf("decode embedded json: %w", err)
	}
	return json.RawMessage(candidate), nil
}

type evaluationPayload struct {
	Score        *float64  `json:"score"`
	Structure    *string   `json:"structure"`
	Fallacies    *[]string `json:"fallacies"`
	Strengths    *[]string `json:"strengths"`
	Improvements *[]string `json:"improvements"`
	TokensEarned *float64  `json:"tokens_earned"`
	Feedback     *string   `json:"feedback"`
}

// DecodeEvaluation fills an EvaluationResponse from an extracted object,
// using defaults for every missing field.
func DecodeEvaluation(raw json.RawMessage) (debate.EvaluationResponse, error) {
	var payload evaluationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return debate.EvaluationResponse{}, fmt.Errorf("decode evaluation: %w", err)
	}

	out := debate.EvaluationResponse{
		Score:        defaultScore,
		Structure:    debate.StructureBasic,
		Fallacies:    []string{},
		Strengths:    []string{},
		Improvements: []string{},
		TokensEarned: 0,
		Feedback:     defaultFeedback,
	}
	if payload.Score != nil {
		out.Score = int(math.Round(*payload.Score))
	}
	if payload.Structure != nil {
		out.Structure = debate.ParseStructure(*payload.Structure)
	}
	if payload.Fallacies != nil && *payload.Fallacies != nil {
		out.Fallacies = *payload.Fallacies
	}
	if payload.Strengths != nil && *payload.Strengths != nil {
		out.Strengths = *payload.Strengths
	}
	if payload.Improvements != nil && *payload.Improvements != nil {
		out.Improvements = *payload.Improvements
	}
	if payload.TokensEarned != nil {
		out.TokensEarned = int(math.Round(*payload.TokensEarned))
	}
	if payload.Feedback != nil {
		out.Feedback = *payload.Feedback
	}
	return out, nil
}

// FallbackEvaluation is returned when the evaluator reply carries no JSON.
func FallbackEvaluation(content string) debate.EvaluationResponse {
	return debate.EvaluationResponse{
		Score:        defaultScore,
		Structure:    debate.StructureBasic,
		Fallacies:    []string{},
		Strengths:    []string{"Argumento presentado"},
		Improvements: []string{"Agregar más evidencia"},
		TokensEarned: fallbackTokensEarned,
		Feedback:     truncateRunes(content, fallbackFeedbackLen),
	}
}

// Parse runs the full pipeline: extraction, decoding and the no-JSON fallback.
// Errors other than a missing span are returned to the caller.
func Parse(content string) (debate.EvaluationResponse, error) {
	raw, err := ExtractEmbeddedJSON(content)
	if errors.Is(err, ErrNoJSONObject) {
		return FallbackEvaluation(content), nil
	}
	if err != nil {
		return debate.EvaluationResponse{}, err
	}
	return DecodeEvaluation(raw)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
