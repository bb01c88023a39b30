package store

import (
	"context"
)

// Button kinds
const (
	ButtonKindCommand = "command"
	ButtonKindURL     = "url"
	ButtonKindWebApp  = "web_app"
)

// DefaultAIModel used when settings carry none
const DefaultAIModel = "gpt-4o-mini"

// DefaultAITemperature used when settings carry none
const DefaultAITemperature = 0.2

// Button attached to a command
type Button struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Command is an exact-match trigger with a canned response
type Command struct {
	ID          string   `json:"id"`
	Command     string   `json:"command"`
	Description string   `json:"description"`
	Response    string   `json:"response"`
	Buttons     []Button `json:"buttons"`
}

// QuickReply is a substring-match keyword trigger
type QuickReply struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Keyword  string `json:"keyword"`
	Response string `json:"response"`
}

// Settings singleton per bot, fully populated on every read
type Settings struct {
	DefaultResponse string  `json:"defaultResponse"`
	AIPersona       string  `json:"aiPersona"`
	AIEnabled       bool    `json:"aiEnabled"`
	AIModel         string  `json:"aiModel"`
	AITemperature   float64 `json:"aiTemperature"`
	AutoKeyboard    bool    `json:"autoKeyboard"`
	AutoCommands    bool    `json:"autoCommands"`
	MiniAppURL      string  `json:"miniAppUrl"`
	WebhookURL      string  `json:"webhookUrl"`
}

// SettingsPatch updates only the fields present in the payload
type SettingsPatch struct {
	DefaultResponse *string  `json:"defaultResponse,omitempty"`
	AIPersona       *string  `json:"aiPersona,omitempty"`
	AIEnabled       *bool    `json:"aiEnabled,omitempty"`
	AIModel         *string  `json:"aiModel,omitempty"`
	AITemperature   *float64 `json:"aiTemperature,omitempty"`
	AutoKeyboard    *bool    `json:"autoKeyboard,omitempty"`
	AutoCommands    *bool    `json:"autoCommands,omitempty"`
	MiniAppURL      *string  `json:"miniAppUrl,omitempty"`
	WebhookURL      *string  `json:"webhookUrl,omitempty"`
}

// BotConfig is one bot's full configuration snapshot
type BotConfig struct {
	Commands     []Command    `json:"commands"`
	QuickReplies []QuickReply `json:"quickReplies"`
	Settings     Settings     `json:"settings"`
}

// Store persists per-bot commands, quick replies and settings. All writes
// are last-writer-wins; the router only ever reads.
type Store interface {
	EnsureReady(ctx context.Context, botID string) error
	GetConfig(ctx context.Context, botID string) (BotConfig, error)
	SaveCommand(ctx context.Context, botID string, input Command) (Command, error)
	DeleteCommand(ctx context.Context, botID string, id string) error
	SaveQuickReply(ctx context.Context, botID string, input QuickReply) (QuickReply, error)
	DeleteQuickReply(ctx context.Context, botID string, id string) error
	UpdateSettings(ctx context.Context, botID string, patch SettingsPatch) (Settings, error)
}

// DefaultSettings returns the fully populated defaults assigned on first read.
func DefaultSettings() Settings {
	return Settings{
		AIModel:       DefaultAIModel,
		AITemperature: DefaultAITemperature,
	}
}
