package handlers

import (
	"net/http"

	"github.com/topito/bot-admin/services/ai"
	"github.com/topito/bot-admin/services/apperrors"
)

type aiPreviewRequest struct {
	Prompt      string   `json:"prompt" validate:"required"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
}

// handleAIPreview generates a reply with the bot's persona, for trying out
// settings from the dashboard. Provider errors surface to the caller here.
func (h *Handlers) handleAIPreview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := aiPreviewRequest{}
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			respondError(w, apperrors.Wrap(apperrors.KindValidation, "prompt is required", err))
			return
		}

		botID := h.botID(r)
		cfg, err := h.store.GetConfig(r.Context(), botID)
		if err != nil {
			respondError(w, err)
			return
		}

		model := req.Model
		if model == "" {
			model = cfg.Settings.AIModel
		}
		temperature := cfg.Settings.AITemperature
		if req.Temperature != nil {
			temperature = *req.Temperature
		}

		text, err := h.ai.Complete(r.Context(), ai.CompletionRequest{
			Prompt:      req.Prompt,
			Persona:     cfg.Settings.AIPersona,
			Model:       model,
			Temperature: temperature,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"text": text})
	}
}

// handleAIModels lists the selectable models, default first
func (h *Handlers) handleAIModels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string][]string{"models": h.ai.SupportedModels()})
	}
}
