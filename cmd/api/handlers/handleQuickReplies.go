package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/topito/bot-admin/services/store"
)

// handleSaveQuickReply creates a quick reply, or updates it when the route
// carries an id.
func (h *Handlers) handleSaveQuickReply(update bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := store.QuickReply{}
		if err := decodeBody(r, &input); err != nil {
			respondError(w, err)
			return
		}
		if update {
			input.ID = chi.URLParam(r, "id")
		} else {
			input.ID = ""
		}

		reply, err := h.store.SaveQuickReply(r.Context(), h.botID(r), input)
		if err != nil {
			respondError(w, err)
			return
		}
		status := http.StatusOK
		if !update {
			status = http.StatusCreated
		}
		respondJSON(w, status, reply)
	}
}

// handleDeleteQuickReply removes a quick reply
func (h *Handlers) handleDeleteQuickReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.store.DeleteQuickReply(r.Context(), h.botID(r), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
