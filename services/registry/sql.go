package registry

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/apperrors"
)

const createBotsTable = `
CREATE TABLE IF NOT EXISTS bots (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	token TEXT NOT NULL DEFAULT '',
	webhook_url TEXT NOT NULL DEFAULT '',
	ai_persona TEXT NOT NULL DEFAULT '',
	ai_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	miniapp_url TEXT NOT NULL DEFAULT '',
	last_synced_at TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SQLRegistry serves bots from the hosted bots table. Statically declared
// bots remain available as a token fallback for the primary bot.
type SQLRegistry struct {
	db           *sql.DB
	static       []Bot
	defaultBotID string
	logger       *zap.Logger
}

// NewSQLRegistry over an open connection
func NewSQLRegistry(db *sql.DB, static []Bot, defaultBotID string, logger *zap.Logger) *SQLRegistry {
	return &SQLRegistry{db: db, static: static, defaultBotID: defaultBotID, logger: logger}
}

// EnsureReady creates the bots table
func (r *SQLRegistry) EnsureReady(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBotsTable); err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, "failed to create bots table", err)
	}
	return nil
}

// ListBots returns all managed bots ordered by name, tokens omitted by the
// Bot JSON shape.
func (r *SQLRegistry) ListBots(ctx context.Context) ([]Bot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, username, description, token, webhook_url, ai_persona, ai_enabled, miniapp_url, last_synced_at
		 FROM bots ORDER BY name ASC`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "failed to list bots", err)
	}
	defer rows.Close()

	bots := []Bot{}
	for rows.Next() {
		bot, err := scanBot(rows)
		if err != nil {
			return nil, err
		}
		bots = append(bots, bot)
	}
	return bots, rows.Err()
}

// GetBot returns nil when no row exists
func (r *SQLRegistry) GetBot(ctx context.Context, botID string) (*Bot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, username, description, token, webhook_url, ai_persona, ai_enabled, miniapp_url, last_synced_at
		 FROM bots WHERE id = $1`, botID)
	bot, err := scanBot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "failed to read bot", err)
	}
	return &bot, nil
}

// GetToken resolves the bot's token from the table, falling back to the
// statically declared primary token. Lookup failures are logged, not raised.
func (r *SQLRegistry) GetToken(ctx context.Context, botID string) string {
	if botID != "" {
		bot, err := r.GetBot(ctx, botID)
		if err != nil {
			r.logger.Error("failed to resolve bot token", zap.String("bot_id", botID), zap.Error(err))
		} else if bot != nil && bot.Token != "" {
			return bot.Token
		}
	}
	if botID == "" || botID == PrimaryBotID {
		for i := range r.static {
			if r.static[i].ID == PrimaryBotID {
				return r.static[i].Token
			}
		}
	}
	return ""
}

// UpsertBot writes the bot row and returns the stored profile
func (r *SQLRegistry) UpsertBot(ctx context.Context, bot Bot) (Bot, error) {
	if bot.ID == "" {
		return Bot{}, apperrors.Validationf("bot id is required")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bots (id, name, username, description, token, webhook_url, ai_persona, ai_enabled, miniapp_url, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			username = EXCLUDED.username,
			description = EXCLUDED.description,
			token = CASE WHEN EXCLUDED.token = '' THEN bots.token ELSE EXCLUDED.token END,
			webhook_url = EXCLUDED.webhook_url,
			ai_persona = EXCLUDED.ai_persona,
			ai_enabled = EXCLUDED.ai_enabled,
			miniapp_url = EXCLUDED.miniapp_url,
			updated_at = now()`,
		bot.ID, bot.Name, bot.Username, bot.Description, bot.Token,
		bot.WebhookURL, bot.AIPersona, bot.AIEnabled, bot.MiniAppURL,
	)
	if err != nil {
		return Bot{}, apperrors.Wrap(apperrors.KindUnknown, "failed to upsert bot", err)
	}
	stored, err := r.GetBot(ctx, bot.ID)
	if err != nil {
		return Bot{}, err
	}
	if stored == nil {
		return Bot{}, apperrors.NotFoundf("bot %s not found after upsert", bot.ID)
	}
	return *stored, nil
}

// MarkSynced records the last successful provider sync
func (r *SQLRegistry) MarkSynced(ctx context.Context, botID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bots SET last_synced_at = now() WHERE id = $1`, botID)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, "failed to mark bot synced", err)
	}
	return nil
}

// EnsureBotID supplies a usable default identifier
func (r *SQLRegistry) EnsureBotID(candidate string) string {
	return ensureBotID(candidate, r.defaultBotID, r.static)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBot(row rowScanner) (Bot, error) {
	bot := Bot{}
	var lastSynced sql.NullTime
	err := row.Scan(
		&bot.ID, &bot.Name, &bot.Username, &bot.Description, &bot.Token,
		&bot.WebhookURL, &bot.AIPersona, &bot.AIEnabled, &bot.MiniAppURL, &lastSynced,
	)
	if err != nil {
		return Bot{}, err
	}
	if bot.Name == "" {
		bot.Name = bot.ID
	}
	if lastSynced.Valid {
		t := lastSynced.Time
		bot.LastSyncedAt = &t
	}
	return bot, nil
}
