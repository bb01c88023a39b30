package handlers

import (
	"net/http"

	"github.com/topito/bot-admin/services/store"
)

// handleGetConfig returns the bot's full configuration snapshot
func (h *Handlers) handleGetConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := h.store.GetConfig(r.Context(), h.botID(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, cfg)
	}
}

// handleUpdateSettings patches only the fields present in the payload
func (h *Handlers) handleUpdateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patch := store.SettingsPatch{}
		if err := decodeBody(r, &patch); err != nil {
			respondError(w, err)
			return
		}
		settings, err := h.store.UpdateSettings(r.Context(), h.botID(r), patch)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, settings)
	}
}
