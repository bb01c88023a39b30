package router

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/ai"
	"github.com/topito/bot-admin/services/sender"
	"github.com/topito/bot-admin/services/store"
	"github.com/topito/bot-admin/services/telegram"
)

// Dispatcher sends resolved replies; satisfied by sender.Sender.
type Dispatcher interface {
	Send(ctx context.Context, botID string, msg sender.Message) error
	Acknowledge(ctx context.Context, botID string, callbackQueryID string)
}

// Completer generates AI fallback replies; satisfied by ai.Generator.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

// ConfigReader is the router's read-only view of the store.
type ConfigReader interface {
	GetConfig(ctx context.Context, botID string) (store.BotConfig, error)
}

// Router resolves each inbound update to at most one outbound message. It
// holds no state of its own: every decision is a function of the update and
// the bot's configuration snapshot, re-read per update.
type Router struct {
	store  ConfigReader
	sender Dispatcher
	ai     Completer
	logger *zap.Logger
}

// New router
func New(st ConfigReader, dispatcher Dispatcher, completer Completer, logger *zap.Logger) *Router {
	return &Router{store: st, sender: dispatcher, ai: completer, logger: logger}
}

// HandleUpdate routes one inbound update. The returned error is for logging
// only; the webhook transport must acknowledge regardless.
func (r *Router) HandleUpdate(ctx context.Context, botID string, update *telegram.Update) error {
	if update == nil {
		return nil
	}

	cfg, err := r.store.GetConfig(ctx, botID)
	if err != nil {
		return err
	}

	if update.CallbackQuery != nil {
		return r.handleCallbackQuery(ctx, botID, cfg, update.CallbackQuery)
	}
	return r.handleMessage(ctx, botID, cfg, update.Message)
}

// handleCallbackQuery matches the callback data against command texts and
// button values. The callback is acknowledged exactly once, after any
// dispatch, and a dispatch failure never prevents the acknowledgement.
func (r *Router) handleCallbackQuery(ctx context.Context, botID string, cfg store.BotConfig, cq *telegram.CallbackQuery) error {
	if cq.Message == nil || cq.Message.Chat == nil {
		r.sender.Acknowledge(ctx, botID, cq.ID)
		return nil
	}
	chatID := cq.Message.Chat.ID
	data := normalize(cq.Data)

	var dispatchErr error
	for _, command := range cfg.Commands {
		if !commandMatches(command, data) {
			continue
		}
		dispatchErr = r.sender.Send(ctx, botID, sender.Message{
			ChatID:  chatID,
			Text:    command.Response,
			Buttons: command.Buttons,
		})
		if dispatchErr != nil {
			r.logger.Error("failed to dispatch callback response",
				zap.String("bot_id", botID),
				zap.String("command", command.Command),
				zap.Error(dispatchErr),
			)
		}
		break
	}

	r.sender.Acknowledge(ctx, botID, cq.ID)
	return dispatchErr
}

// handleMessage walks the match policy chain: exact command, button value,
// quick-reply keyword, AI fallback, default response. First match wins.
func (r *Router) handleMessage(ctx context.Context, botID string, cfg store.BotConfig, msg *telegram.Message) error {
	if msg == nil || msg.Chat == nil {
		return nil
	}
	chatID := msg.Chat.ID
	text := normalize(msg.Text)
	if text == "" {
		return nil
	}

	for _, command := range cfg.Commands {
		if normalize(command.Command) == text {
			return r.sender.Send(ctx, botID, sender.Message{
				ChatID:  chatID,
				Text:    command.Response,
				Buttons: command.Buttons,
			})
		}
	}

	for _, command := range cfg.Commands {
		if buttonMatches(command.Buttons, text) {
			return r.sender.Send(ctx, botID, sender.Message{
				ChatID:  chatID,
				Text:    command.Response,
				Buttons: command.Buttons,
			})
		}
	}

	for _, reply := range cfg.QuickReplies {
		keyword := normalize(reply.Keyword)
		if keyword != "" && strings.Contains(text, keyword) {
			return r.sender.Send(ctx, botID, sender.Message{
				ChatID: chatID,
				Text:   reply.Response,
			})
		}
	}

	if cfg.Settings.AIEnabled && r.ai != nil && r.ai.Configured() {
		generated, err := r.ai.Complete(ctx, ai.CompletionRequest{
			Prompt:      msg.Text,
			Persona:     cfg.Settings.AIPersona,
			Model:       cfg.Settings.AIModel,
			Temperature: cfg.Settings.AITemperature,
		})
		if err != nil {
			// degrade to the default response instead of surfacing
			r.logger.Error("ai fallback failed", zap.String("bot_id", botID), zap.Error(err))
		} else {
			return r.sender.Send(ctx, botID, sender.Message{
				ChatID: chatID,
				Text:   generated,
			})
		}
	}

	if cfg.Settings.DefaultResponse != "" {
		return r.sender.Send(ctx, botID, sender.Message{
			ChatID: chatID,
			Text:   cfg.Settings.DefaultResponse,
		})
	}

	return nil
}

// commandMatches reports whether the command's own text or any of its button
// values (label when the value is absent) equals the normalized input.
func commandMatches(command store.Command, normalized string) bool {
	if command.Command != "" && normalize(command.Command) == normalized {
		return true
	}
	return buttonMatches(command.Buttons, normalized)
}

func buttonMatches(buttons []store.Button, normalized string) bool {
	for _, button := range buttons {
		value := button.Value
		if value == "" {
			value = button.Label
		}
		if value != "" && normalize(value) == normalized {
			return true
		}
	}
	return false
}

// normalize trims surrounding whitespace and lowercases. No other folding.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
