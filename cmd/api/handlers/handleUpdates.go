package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/telegram"
)

// handleUpdate receives one webhook update and routes it. The provider must
// never see a failure status here, or it would re-deliver the update, so
// every error path still answers 200.
func (h *Handlers) handleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		botID := h.botID(r)
		l := h.logger.With(zap.String("bot_id", botID))

		update := &telegram.Update{}
		if err := json.NewDecoder(r.Body).Decode(update); err != nil {
			l.Error("failed to decode update body", zap.Error(err))
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := h.router.HandleUpdate(r.Context(), botID, update); err != nil {
			l.Error("failed to handle update", zap.Error(err))
		}
		w.WriteHeader(http.StatusOK)
	}
}
