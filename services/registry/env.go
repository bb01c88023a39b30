package registry

import (
	"context"

	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/apperrors"
)

// EnvRegistry serves the statically declared bot list. It never mutates.
type EnvRegistry struct {
	bots         []Bot
	defaultBotID string
	logger       *zap.Logger
}

// NewEnvRegistry over a parsed static bot list
func NewEnvRegistry(bots []Bot, defaultBotID string, logger *zap.Logger) *EnvRegistry {
	return &EnvRegistry{bots: bots, defaultBotID: defaultBotID, logger: logger}
}

// EnsureReady is a no-op for the static registry
func (r *EnvRegistry) EnsureReady(ctx context.Context) error {
	return nil
}

// ListBots returns the static list
func (r *EnvRegistry) ListBots(ctx context.Context) ([]Bot, error) {
	out := make([]Bot, len(r.bots))
	copy(out, r.bots)
	return out, nil
}

// GetBot returns nil when the bot is not declared
func (r *EnvRegistry) GetBot(ctx context.Context, botID string) (*Bot, error) {
	for i := range r.bots {
		if r.bots[i].ID == botID {
			bot := r.bots[i]
			return &bot, nil
		}
	}
	return nil, nil
}

// GetToken resolves the bot's token, falling back to the primary bot's token
// when no bot id was supplied.
func (r *EnvRegistry) GetToken(ctx context.Context, botID string) string {
	if botID == "" {
		botID = PrimaryBotID
	}
	for i := range r.bots {
		if r.bots[i].ID == botID {
			return r.bots[i].Token
		}
	}
	return ""
}

// UpsertBot is unsupported in static mode
func (r *EnvRegistry) UpsertBot(ctx context.Context, bot Bot) (Bot, error) {
	return Bot{}, apperrors.Validationf("local mode does not support creating bots, declare them via TELEGRAM_BOTS")
}

// MarkSynced is a no-op in static mode
func (r *EnvRegistry) MarkSynced(ctx context.Context, botID string) error {
	return nil
}

// EnsureBotID supplies a usable default identifier
func (r *EnvRegistry) EnsureBotID(candidate string) string {
	return ensureBotID(candidate, r.defaultBotID, r.bots)
}
