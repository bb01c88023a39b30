package sender

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/apperrors"
	"github.com/topito/bot-admin/services/registry"
	"github.com/topito/bot-admin/services/store"
	"github.com/topito/bot-admin/services/telegram"
)

// DefaultParseMode for outbound messages
const DefaultParseMode = "Markdown"

// Message is one outbound send instruction
type Message struct {
	ChatID    int64
	Text      string
	Buttons   []store.Button
	ParseMode string
}

// Sender resolves a bot's credential, builds provider markup, and dispatches
// through the Bot API client.
type Sender struct {
	registry registry.Registry
	store    store.Store
	client   *telegram.Client
	fallback telegram.WebAppFallback
	domain   string
	logger   *zap.Logger
}

// New sender
func New(
	reg registry.Registry,
	st store.Store,
	client *telegram.Client,
	fallback telegram.WebAppFallback,
	domain string,
	logger *zap.Logger,
) *Sender {
	return &Sender{
		registry: reg,
		store:    st,
		client:   client,
		fallback: fallback,
		domain:   domain,
		logger:   logger,
	}
}

// Send dispatches a message for the bot. Fails with a missing-credential
// error when no token resolves, a provider error on transport failure.
func (s *Sender) Send(ctx context.Context, botID string, msg Message) error {
	if msg.ChatID == 0 || msg.Text == "" {
		return apperrors.Validationf("chat id and text are required")
	}

	token := s.registry.GetToken(ctx, botID)
	if token == "" {
		return apperrors.MissingCredentialf("no token found for bot %s", botID)
	}

	// settings feed the web_app fallback URL chain
	cfg, err := s.store.GetConfig(ctx, botID)
	if err != nil {
		return err
	}

	parseMode := msg.ParseMode
	if parseMode == "" {
		parseMode = DefaultParseMode
	}

	return s.client.SendMessage(ctx, token, telegram.SendMessageParams{
		ChatID:      msg.ChatID,
		Text:        msg.Text,
		ParseMode:   parseMode,
		ReplyMarkup: telegram.BuildReplyMarkup(msg.Buttons, botID, cfg.Settings, s.fallback),
	})
}

// Acknowledge answers a callback query. Best-effort: failures are logged and
// swallowed so a dead callback can never block update processing.
func (s *Sender) Acknowledge(ctx context.Context, botID string, callbackQueryID string) {
	if callbackQueryID == "" {
		return
	}
	token := s.registry.GetToken(ctx, botID)
	if token == "" {
		s.logger.Warn("cannot acknowledge callback, no token", zap.String("bot_id", botID))
		return
	}
	if err := s.client.AnswerCallbackQuery(ctx, token, callbackQueryID); err != nil {
		s.logger.Error("failed to acknowledge callback",
			zap.String("bot_id", botID),
			zap.Error(err),
		)
	}
}

// SetWebhook registers the bot's webhook, persisting the URL in settings and
// recording the sync. An omitted URL is derived from the public domain.
func (s *Sender) SetWebhook(ctx context.Context, botID string, requestedURL string) (string, error) {
	webhookURL := s.resolveWebhookURL(botID, requestedURL)
	if webhookURL == "" {
		return "", apperrors.Validationf("a webhook URL is required")
	}
	parsed, err := url.Parse(webhookURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", apperrors.Validationf("invalid webhook URL %s", webhookURL)
	}

	token := s.registry.GetToken(ctx, botID)
	if token == "" {
		return "", apperrors.MissingCredentialf("no token found for bot %s", botID)
	}

	if err := s.client.SetWebhook(ctx, token, webhookURL); err != nil {
		return "", err
	}
	if _, err := s.store.UpdateSettings(ctx, botID, store.SettingsPatch{WebhookURL: &webhookURL}); err != nil {
		return "", err
	}
	if err := s.registry.MarkSynced(ctx, botID); err != nil {
		s.logger.Error("failed to mark bot synced", zap.String("bot_id", botID), zap.Error(err))
	}
	return webhookURL, nil
}

// DeleteWebhook removes the registration and clears the stored URL
func (s *Sender) DeleteWebhook(ctx context.Context, botID string) error {
	token := s.registry.GetToken(ctx, botID)
	if token == "" {
		return apperrors.MissingCredentialf("no token found for bot %s", botID)
	}
	if err := s.client.DeleteWebhook(ctx, token); err != nil {
		return err
	}
	empty := ""
	_, err := s.store.UpdateSettings(ctx, botID, store.SettingsPatch{WebhookURL: &empty})
	return err
}

func (s *Sender) resolveWebhookURL(botID string, requestedURL string) string {
	if requestedURL != "" {
		return requestedURL
	}
	if s.domain == "" {
		return ""
	}
	base := s.domain
	if !strings.HasPrefix(base, "http") {
		base = "https://" + base
	}
	return strings.TrimRight(base, "/") + "/webhook/" + botID
}
