package handlers

import (
	"context"
	"time"

	"github.com/gocraft/work"
	"go.uber.org/zap"
)

// JobSyncBots is the periodic job refreshing every bot's webhook status
const JobSyncBots = "sync_bots"

// JobSyncBots checks each registered bot against the provider and records
// the sync time for bots with a live webhook. Keeps the dashboard's
// last-synced column honest without an admin clicking through every bot.
func (h *Handlers) JobSyncBots(job *work.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	l := h.logger.With(zap.String("job", JobSyncBots))

	bots, err := h.registry.ListBots(ctx)
	if err != nil {
		l.Error("failed to list bots", zap.Error(err))
		return err
	}

	for _, bot := range bots {
		status := h.sender.BotStatus(ctx, bot.ID)
		if status.Error != "" {
			l.Warn("bot status check failed",
				zap.String("bot_id", bot.ID),
				zap.String("error", status.Error),
			)
			continue
		}
		if !status.Connected {
			continue
		}
		if err := h.registry.MarkSynced(ctx, bot.ID); err != nil {
			l.Error("failed to mark bot synced", zap.String("bot_id", bot.ID), zap.Error(err))
		}
	}

	return nil
}
