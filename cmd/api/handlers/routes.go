package handlers

import (
	"github.com/go-chi/chi"
)

// Routes for app
func (h *Handlers) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/health", h.handleHealth())

	router.Post("/webhook", h.handleUpdate())
	router.Post("/webhook/{botId}", h.handleUpdate())

	router.Route("/api", func(api chi.Router) {
		api.Get("/bots", h.handleListBots())
		api.Post("/bots", h.handleUpsertBot())
		api.Get("/status", h.handleAllBotStatuses())
		api.Get("/system/status", h.handleSystemStatus())
		api.Get("/ai/models", h.handleAIModels())

		api.Route("/bots/{botId}", func(bot chi.Router) {
			bot.Get("/config", h.handleGetConfig())
			bot.Put("/settings", h.handleUpdateSettings())

			bot.Post("/commands", h.handleSaveCommand(false))
			bot.Put("/commands/{id}", h.handleSaveCommand(true))
			bot.Delete("/commands/{id}", h.handleDeleteCommand())

			bot.Post("/quick-replies", h.handleSaveQuickReply(false))
			bot.Put("/quick-replies/{id}", h.handleSaveQuickReply(true))
			bot.Delete("/quick-replies/{id}", h.handleDeleteQuickReply())

			bot.Post("/test-message", h.handleTestMessage())
			bot.Post("/webhook", h.handleSetWebhook())
			bot.Delete("/webhook", h.handleDeleteWebhook())
			bot.Get("/status", h.handleBotStatus())
			bot.Post("/ai/preview", h.handleAIPreview())
		})
	})

	return router
}
