package sender

import (
	"context"

	"go.uber.org/zap"
)

// BotStatus summarises one bot's provider-side state
type BotStatus struct {
	BotID                string `json:"botId"`
	Username             string `json:"username,omitempty"`
	FirstName            string `json:"firstName,omitempty"`
	WebhookURL           string `json:"webhookUrl,omitempty"`
	HasCustomCertificate bool   `json:"hasCustomCertificate"`
	PendingUpdateCount   int    `json:"pendingUpdateCount"`
	LastErrorDate        int64  `json:"lastErrorDate,omitempty"`
	LastErrorMessage     string `json:"lastErrorMessage,omitempty"`
	MaxConnections       int    `json:"maxConnections,omitempty"`
	Connected            bool   `json:"connected"`
	Error                string `json:"error,omitempty"`
}

// BotStatus never fails: an unresolvable token or provider error is reported
// inside the status payload.
func (s *Sender) BotStatus(ctx context.Context, botID string) BotStatus {
	status := BotStatus{BotID: botID}

	token := s.registry.GetToken(ctx, botID)
	if token == "" {
		status.Error = "no token found for bot " + botID
		return status
	}

	me, err := s.client.GetMe(ctx, token)
	if err != nil {
		s.logger.Error("getMe failed", zap.String("bot_id", botID), zap.Error(err))
		status.Error = err.Error()
		return status
	}
	status.Username = me.Username
	status.FirstName = me.FirstName

	info, err := s.client.GetWebhookInfo(ctx, token)
	if err != nil {
		s.logger.Error("getWebhookInfo failed", zap.String("bot_id", botID), zap.Error(err))
		status.Error = err.Error()
		return status
	}
	status.WebhookURL = info.URL
	status.HasCustomCertificate = info.HasCustomCertificate
	status.PendingUpdateCount = info.PendingUpdateCount
	status.LastErrorDate = info.LastErrorDate
	status.LastErrorMessage = info.LastErrorMessage
	status.MaxConnections = info.MaxConnections
	status.Connected = info.URL != ""

	if status.WebhookURL == "" {
		if cfg, err := s.store.GetConfig(ctx, botID); err == nil {
			status.WebhookURL = cfg.Settings.WebhookURL
		}
	}
	return status
}

// AllBotStatuses reports every registered bot
func (s *Sender) AllBotStatuses(ctx context.Context) ([]BotStatus, error) {
	bots, err := s.registry.ListBots(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]BotStatus, 0, len(bots))
	for _, bot := range bots {
		statuses = append(statuses, s.BotStatus(ctx, bot.ID))
	}
	return statuses, nil
}
