package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/apperrors"
)

const createBotConfigsTable = `
CREATE TABLE IF NOT EXISTS bot_configs (
	bot_id TEXT PRIMARY KEY,
	config JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SQLStore keeps one configuration document per bot in a hosted Postgres
// table. Same last-writer-wins semantics as the file store.
type SQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLStore over an open connection
func NewSQLStore(db *sql.DB, logger *zap.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

// EnsureReady creates the table and seeds the bot's row exactly once.
func (s *SQLStore) EnsureReady(ctx context.Context, botID string) error {
	if _, err := s.db.ExecContext(ctx, createBotConfigsTable); err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, "failed to create bot_configs table", err)
	}
	if botID == "" {
		return nil
	}
	raw, err := json.Marshal(seedConfig())
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bot_configs (bot_id, config) VALUES ($1, $2) ON CONFLICT (bot_id) DO NOTHING`,
		botID, raw,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, "failed to seed bot config", err)
	}
	return nil
}

// GetConfig returns the bot's full configuration, seeding on first read.
func (s *SQLStore) GetConfig(ctx context.Context, botID string) (BotConfig, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT config FROM bot_configs WHERE bot_id = $1`, botID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.EnsureReady(ctx, botID); err != nil {
			return BotConfig{}, err
		}
		return s.GetConfig(ctx, botID)
	}
	if err != nil {
		return BotConfig{}, apperrors.Wrap(apperrors.KindUnknown, "failed to read bot config", err)
	}
	cfg := BotConfig{}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return BotConfig{}, apperrors.Wrap(apperrors.KindUnknown, "failed to parse bot config", err)
	}
	normalizeConfig(&cfg)
	return cfg, nil
}

// SaveCommand creates or updates a command
func (s *SQLStore) SaveCommand(ctx context.Context, botID string, input Command) (Command, error) {
	var saved Command
	err := s.mutate(ctx, botID, func(cfg *BotConfig) error {
		var err error
		saved, err = applyCommand(cfg, input)
		return err
	})
	return saved, err
}

// DeleteCommand removes a command
func (s *SQLStore) DeleteCommand(ctx context.Context, botID string, id string) error {
	return s.mutate(ctx, botID, func(cfg *BotConfig) error {
		return deleteCommand(cfg, id)
	})
}

// SaveQuickReply creates or updates a quick reply
func (s *SQLStore) SaveQuickReply(ctx context.Context, botID string, input QuickReply) (QuickReply, error) {
	var saved QuickReply
	err := s.mutate(ctx, botID, func(cfg *BotConfig) error {
		var err error
		saved, err = applyQuickReply(cfg, input)
		return err
	})
	return saved, err
}

// DeleteQuickReply removes a quick reply
func (s *SQLStore) DeleteQuickReply(ctx context.Context, botID string, id string) error {
	return s.mutate(ctx, botID, func(cfg *BotConfig) error {
		return deleteQuickReply(cfg, id)
	})
}

// UpdateSettings patches only the provided fields
func (s *SQLStore) UpdateSettings(ctx context.Context, botID string, patch SettingsPatch) (Settings, error) {
	var settings Settings
	err := s.mutate(ctx, botID, func(cfg *BotConfig) error {
		settings = applySettings(cfg, patch)
		return nil
	})
	return settings, err
}

// Ready reports whether the backing table answers a trivial query.
func (s *SQLStore) Ready(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `SELECT 1 FROM bot_configs LIMIT 1`)
	return err
}

func (s *SQLStore) mutate(ctx context.Context, botID string, fn func(cfg *BotConfig) error) error {
	cfg, err := s.GetConfig(ctx, botID)
	if err != nil {
		return err
	}
	if err := fn(&cfg); err != nil {
		return err
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bot_configs (bot_id, config, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (bot_id) DO UPDATE SET config = EXCLUDED.config, updated_at = now()`,
		botID, raw,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, "failed to write bot config", err)
	}
	return nil
}
