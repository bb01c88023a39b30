package handlers

import (
	"context"
	"net/http"

	"github.com/topito/bot-admin/services/registry"
)

// readinessChecker is satisfied by both store implementations
type readinessChecker interface {
	Ready(ctx context.Context) error
}

type storeStatus struct {
	Mode  string `json:"mode"`
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

type botsStatus struct {
	Count int            `json:"count"`
	Items []registry.Bot `json:"items"`
	Error string         `json:"error,omitempty"`
}

type openAIStatus struct {
	Configured      bool     `json:"configured"`
	DefaultModel    string   `json:"defaultModel"`
	SupportedModels []string `json:"supportedModels"`
}

type environmentStatus struct {
	Domain       string `json:"domain,omitempty"`
	MiniAppID    string `json:"miniAppId,omitempty"`
	DefaultBotID string `json:"defaultBotId,omitempty"`
}

type systemStatus struct {
	Bots        botsStatus        `json:"bots"`
	Store       storeStatus       `json:"store"`
	OpenAI      openAIStatus      `json:"openai"`
	Environment environmentStatus `json:"environment"`
}

// handleHealth is the load balancer probe: system status plus per-bot
// provider status.
func (h *Handlers) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := h.sender.AllBotStatuses(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"system":   h.systemStatus(r.Context()),
			"telegram": statuses,
		})
	}
}

// handleBotStatus reports one bot's provider-side state
func (h *Handlers) handleBotStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, h.sender.BotStatus(r.Context(), h.botID(r)))
	}
}

// handleAllBotStatuses reports every registered bot
func (h *Handlers) handleAllBotStatuses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := h.sender.AllBotStatuses(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"bots": statuses})
	}
}

// handleSystemStatus aggregates store, registry and AI readiness
func (h *Handlers) handleSystemStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, h.systemStatus(r.Context()))
	}
}

func (h *Handlers) systemStatus(ctx context.Context) systemStatus {
	status := systemStatus{
		OpenAI: openAIStatus{
			Configured:      h.ai.Configured(),
			DefaultModel:    h.ai.DefaultModel(),
			SupportedModels: h.ai.SupportedModels(),
		},
		Environment: environmentStatus{
			Domain:       h.cfg.Domain,
			MiniAppID:    h.cfg.MiniAppID,
			DefaultBotID: h.cfg.DefaultBotID,
		},
	}

	status.Store.Mode = "local"
	if h.cfg.HostedStore() {
		status.Store.Mode = "hosted"
	}
	if checker, ok := h.store.(readinessChecker); ok {
		if err := checker.Ready(ctx); err != nil {
			status.Store.Error = err.Error()
		} else {
			status.Store.Ready = true
		}
	}

	bots, err := h.registry.ListBots(ctx)
	if err != nil {
		status.Bots.Error = err.Error()
		bots = []registry.Bot{}
	}
	status.Bots.Count = len(bots)
	status.Bots.Items = bots

	return status
}
