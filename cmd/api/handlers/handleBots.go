package handlers

import (
	"net/http"

	"github.com/topito/bot-admin/services/apperrors"
	"github.com/topito/bot-admin/services/registry"
)

type upsertBotRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Token       string `json:"token"`
	WebhookURL  string `json:"webhookUrl"`
	AIPersona   string `json:"aiPersona"`
	AIEnabled   bool   `json:"aiEnabled"`
	MiniAppURL  string `json:"miniAppUrl"`
}

// handleListBots returns every managed bot, tokens omitted
func (h *Handlers) handleListBots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bots, err := h.registry.ListBots(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"bots": bots})
	}
}

// handleUpsertBot creates or updates a bot profile (hosted mode only)
func (h *Handlers) handleUpsertBot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := upsertBotRequest{}
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			respondError(w, apperrors.Wrap(apperrors.KindValidation, "invalid bot payload", err))
			return
		}

		bot, err := h.registry.UpsertBot(r.Context(), registry.Bot{
			ID:          req.ID,
			Name:        req.Name,
			Username:    req.Username,
			Description: req.Description,
			Token:       req.Token,
			WebhookURL:  req.WebhookURL,
			AIPersona:   req.AIPersona,
			AIEnabled:   req.AIEnabled,
			MiniAppURL:  req.MiniAppURL,
		})
		if err != nil {
			respondError(w, err)
			return
		}

		if err := h.store.EnsureReady(r.Context(), bot.ID); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, bot)
	}
}
