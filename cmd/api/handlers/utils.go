package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/topito/bot-admin/services/apperrors"
)

// respondJSON encodes a JSON response body
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError maps an error to its classified status code
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, apperrors.HTTPStatus(err), map[string]interface{}{
		"error": err.Error(),
	})
}

// decodeBody parses a JSON request body into dst
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "invalid request body", err)
	}
	return nil
}

// botID resolves the bot identifier from the URL, falling back to the
// registry's default chain when the path carries none.
func (h *Handlers) botID(r *http.Request) string {
	return h.registry.EnsureBotID(chi.URLParam(r, "botId"))
}
