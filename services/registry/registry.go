package registry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bot is one managed Telegram presence. The token never leaves the backend.
type Bot struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	Description  string     `json:"description"`
	Token        string     `json:"-"`
	WebhookURL   string     `json:"webhookUrl"`
	AIPersona    string     `json:"aiPersona"`
	AIEnabled    bool       `json:"aiEnabled"`
	MiniAppURL   string     `json:"miniAppUrl"`
	LastSyncedAt *time.Time `json:"lastSyncedAt"`
}

// Registry resolves bot identifiers to credentials and profiles.
type Registry interface {
	EnsureReady(ctx context.Context) error
	ListBots(ctx context.Context) ([]Bot, error)
	// GetBot returns nil when the bot is unknown.
	GetBot(ctx context.Context, botID string) (*Bot, error)
	// GetToken returns the empty string, never an error, when no token is
	// resolvable. Callers turn that into a missing-credential error.
	GetToken(ctx context.Context, botID string) string
	UpsertBot(ctx context.Context, bot Bot) (Bot, error)
	MarkSynced(ctx context.Context, botID string) error
	// EnsureBotID supplies a usable identifier when the caller omits one.
	EnsureBotID(candidate string) string
}

// envBotSpec is one entry of the TELEGRAM_BOTS JSON array.
type envBotSpec struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Token      string `json:"token"`
	MiniAppURL string `json:"miniAppUrl"`
}

// PrimaryBotID is the identifier of the implicit bot declared through the
// single-token environment variables.
const PrimaryBotID = "primary"

// ParseEnvBots builds the static bot list from the TELEGRAM_BOTS JSON array
// plus the single-token primary declaration. Entries without an id or token
// are skipped.
func ParseEnvBots(botsJSON, primaryToken, primaryName, primaryUsername, primaryMiniAppURL string, logger *zap.Logger) []Bot {
	bots := []Bot{}

	if botsJSON != "" {
		specs := []envBotSpec{}
		if err := json.Unmarshal([]byte(botsJSON), &specs); err != nil {
			logger.Warn("failed to parse TELEGRAM_BOTS", zap.Error(err))
		} else {
			for _, spec := range specs {
				if spec.ID == "" || spec.Token == "" {
					continue
				}
				name := spec.Name
				if name == "" {
					name = spec.ID
				}
				bots = append(bots, Bot{
					ID:         spec.ID,
					Name:       name,
					Username:   spec.Username,
					Token:      spec.Token,
					MiniAppURL: spec.MiniAppURL,
				})
			}
		}
	}

	if primaryToken != "" {
		name := primaryName
		if name == "" {
			name = "Primary Bot"
		}
		bots = append(bots, Bot{
			ID:         PrimaryBotID,
			Name:       name,
			Username:   primaryUsername,
			Token:      primaryToken,
			MiniAppURL: primaryMiniAppURL,
		})
	}

	return bots
}

// ensureBotID implements the shared identifier fallback chain.
func ensureBotID(candidate, defaultBotID string, static []Bot) string {
	if candidate != "" {
		return candidate
	}
	if defaultBotID != "" {
		return defaultBotID
	}
	if len(static) > 0 {
		return static[0].ID
	}
	return uuid.NewString()
}
