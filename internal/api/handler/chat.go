package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/albapepper/scoracle-persona/internal/api/respond"
	"github.com/albapepper/scoracle-persona/internal/orchestrator"
)

// chatRequestBody is the wire shape of POST /v1/chat.
type chatRequestBody struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	PersonaID      string `json:"persona_id,omitempty"`
}

// chatResponseBody is the wire shape of a successful chat response.
type chatResponseBody struct {
	ResponseText   string                  `json:"response_text"`
	ConversationID string                  `json:"conversation_id"`
	Sources        []chatSourceBody        `json:"sources"`
	Confidence     float64                 `json:"confidence"`
	Usage          *chatUsageBody          `json:"usage,omitempty"`
	Metadata       chatResponseMetaBody    `json:"metadata"`
}

type chatSourceBody struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type chatUsageBody struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type chatResponseMetaBody struct {
	Deflected       bool   `json:"deflected"`
	StoreDegraded   bool   `json:"store_degraded"`
	GeneratorFailed bool   `json:"generator_failed"`
	TrustLevel      string `json:"trust_level"`
	Intent          string `json:"intent,omitempty"`
	FallbackStep    int    `json:"fallback_step,omitempty"`
	CacheHit        bool   `json:"cache_hit"`
}

// Chat handles POST /v1/chat, the engine's single ingress operation.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var body chatRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "request body must be valid JSON")
		return
	}

	resp, err := h.orch.Chat(r.Context(), orchestrator.ChatRequest{
		Message:        body.Message,
		ConversationID: body.ConversationID,
		PersonaID:      body.PersonaID,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrInvalidInput):
			respond.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "message is empty, oversize, or contains invalid characters")
		case errors.Is(err, orchestrator.ErrCancelled):
			respond.WriteError(w, http.StatusRequestTimeout, "CANCELLED", "request was cancelled before completion")
		default:
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error")
		}
		return
	}

	sources := make([]chatSourceBody, 0, len(resp.Sources))
	for _, s := range resp.Sources {
		sources = append(sources, chatSourceBody{Type: s.Type, ID: s.ID})
	}

	var usage *chatUsageBody
	if resp.Usage != nil {
		usage = &chatUsageBody{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens}
	}

	respond.WriteJSONObject(w, http.StatusOK, chatResponseBody{
		ResponseText:   resp.ResponseText,
		ConversationID: resp.ConversationID,
		Sources:        sources,
		Confidence:     resp.Confidence,
		Usage:          usage,
		Metadata: chatResponseMetaBody{
			Deflected:       resp.Metadata.Deflected,
			StoreDegraded:   resp.Metadata.StoreDegraded,
			GeneratorFailed: resp.Metadata.GeneratorFailed,
			TrustLevel:      resp.Metadata.TrustLevel.String(),
			Intent:          resp.Metadata.Intent,
			FallbackStep:    resp.Metadata.FallbackStep,
			CacheHit:        resp.Metadata.CacheHit,
		},
	})
}
