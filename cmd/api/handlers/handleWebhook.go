package handlers

import (
	"net/http"

	"github.com/topito/bot-admin/services/apperrors"
	"github.com/topito/bot-admin/services/sender"
	"github.com/topito/bot-admin/services/store"
)

type testMessageRequest struct {
	ChatID    int64    `json:"chatId" validate:"required"`
	Message   string   `json:"message" validate:"required"`
	Buttons   []button `json:"buttons"`
	ParseMode string   `json:"parseMode"`
}

type button struct {
	Label string `json:"label"`
	Kind  string `json:"type"`
	Value string `json:"value"`
}

type setWebhookRequest struct {
	URL string `json:"url"`
}

// handleTestMessage sends an admin-triggered message through the real
// provider path; unlike update processing, failures surface to the caller.
func (h *Handlers) handleTestMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := testMessageRequest{}
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			respondError(w, apperrors.Wrap(apperrors.KindValidation, "chatId and message are required", err))
			return
		}

		buttons := make([]store.Button, 0, len(req.Buttons))
		for _, b := range req.Buttons {
			buttons = append(buttons, store.Button{Label: b.Label, Kind: b.Kind, Value: b.Value})
		}

		err := h.sender.Send(r.Context(), h.botID(r), sender.Message{
			ChatID:    req.ChatID,
			Text:      req.Message,
			Buttons:   buttons,
			ParseMode: req.ParseMode,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// handleSetWebhook registers the bot's webhook URL
func (h *Handlers) handleSetWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := setWebhookRequest{}
		if err := decodeBody(r, &req); err != nil {
			respondError(w, err)
			return
		}
		webhookURL, err := h.sender.SetWebhook(r.Context(), h.botID(r), req.URL)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"webhookUrl": webhookURL})
	}
}

// handleDeleteWebhook removes the bot's webhook registration
func (h *Handlers) handleDeleteWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sender.DeleteWebhook(r.Context(), h.botID(r)); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
