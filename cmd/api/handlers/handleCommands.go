package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/topito/bot-admin/services/store"
)

// handleSaveCommand creates a command, or updates it when the route carries
// an id.
func (h *Handlers) handleSaveCommand(update bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := store.Command{}
		if err := decodeBody(r, &input); err != nil {
			respondError(w, err)
			return
		}
		if update {
			input.ID = chi.URLParam(r, "id")
		} else {
			input.ID = ""
		}

		command, err := h.store.SaveCommand(r.Context(), h.botID(r), input)
		if err != nil {
			respondError(w, err)
			return
		}
		status := http.StatusOK
		if !update {
			status = http.StatusCreated
		}
		respondJSON(w, status, command)
	}
}

// handleDeleteCommand removes a command
func (h *Handlers) handleDeleteCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.store.DeleteCommand(r.Context(), h.botID(r), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
