package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/apperrors"
)

// fileDocument is the on-disk shape of the local store, one entry per bot.
type fileDocument struct {
	Bots map[string]BotConfig `json:"bots"`
}

// FileStore keeps all bot configurations in a single JSON file. Writes are
// serialized in-process; concurrent admin sessions are last-writer-wins.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

// NewFileStore at the given path
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// EnsureReady creates the data file and seeds the bot's entry exactly once.
func (s *FileStore) EnsureReady(ctx context.Context, botID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Bots[botID]; ok {
		return nil
	}
	doc.Bots[botID] = seedConfig()
	return s.save(doc)
}

// GetConfig returns the bot's full configuration, seeding defaults on first
// read.
func (s *FileStore) GetConfig(ctx context.Context, botID string) (BotConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, _, err := s.loadBot(botID)
	return cfg, err
}

// SaveCommand creates or updates a command
func (s *FileStore) SaveCommand(ctx context.Context, botID string, input Command) (Command, error) {
	var saved Command
	err := s.mutate(botID, func(cfg *BotConfig) error {
		var err error
		saved, err = applyCommand(cfg, input)
		return err
	})
	return saved, err
}

// DeleteCommand removes a command
func (s *FileStore) DeleteCommand(ctx context.Context, botID string, id string) error {
	return s.mutate(botID, func(cfg *BotConfig) error {
		return deleteCommand(cfg, id)
	})
}

// SaveQuickReply creates or updates a quick reply
func (s *FileStore) SaveQuickReply(ctx context.Context, botID string, input QuickReply) (QuickReply, error) {
	var saved QuickReply
	err := s.mutate(botID, func(cfg *BotConfig) error {
		var err error
		saved, err = applyQuickReply(cfg, input)
		return err
	})
	return saved, err
}

// DeleteQuickReply removes a quick reply
func (s *FileStore) DeleteQuickReply(ctx context.Context, botID string, id string) error {
	return s.mutate(botID, func(cfg *BotConfig) error {
		return deleteQuickReply(cfg, id)
	})
}

// UpdateSettings patches only the provided fields
func (s *FileStore) UpdateSettings(ctx context.Context, botID string, patch SettingsPatch) (Settings, error) {
	var settings Settings
	err := s.mutate(botID, func(cfg *BotConfig) error {
		settings = applySettings(cfg, patch)
		return nil
	})
	return settings, err
}

// Ready reports whether the data file exists and parses.
func (s *FileStore) Ready(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.load()
	return err
}

func (s *FileStore) mutate(botID string, fn func(cfg *BotConfig) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, doc, err := s.loadBot(botID)
	if err != nil {
		return err
	}
	if err := fn(&cfg); err != nil {
		return err
	}
	doc.Bots[botID] = cfg
	return s.save(doc)
}

// loadBot returns the bot's config, seeding it when absent. Caller holds mu.
func (s *FileStore) loadBot(botID string) (BotConfig, *fileDocument, error) {
	doc, err := s.load()
	if err != nil {
		return BotConfig{}, nil, err
	}
	cfg, ok := doc.Bots[botID]
	if !ok {
		cfg = seedConfig()
		doc.Bots[botID] = cfg
		if err := s.save(doc); err != nil {
			return BotConfig{}, nil, err
		}
	}
	normalizeConfig(&cfg)
	return cfg, doc, nil
}

func (s *FileStore) load() (*fileDocument, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fileDocument{Bots: map[string]BotConfig{}}, nil
		}
		return nil, apperrors.Wrap(apperrors.KindUnknown, "failed to read data file", err)
	}
	doc := &fileDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "failed to parse data file", err)
	}
	if doc.Bots == nil {
		doc.Bots = map[string]BotConfig{}
	}
	return doc, nil
}

func (s *FileStore) save(doc *fileDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, "failed to create data dir", err)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, "failed to write data file", err)
	}
	return nil
}
