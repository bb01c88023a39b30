package config

import (
	"github.com/caarlos0/env"
	// auto loads .env
	_ "github.com/joho/godotenv/autoload"
)

// Config for app
type Config struct {
	Port string `env:"PORT" envDefault:"3000"`

	// hosted-store mode is enabled when a database URL is set
	DatabaseURL string `env:"DATABASE_URL"`
	DataFile    string `env:"DATA_FILE" envDefault:"data/bot-config.json"`

	// background sync worker, enabled when a redis URL is set
	RedisURL       string `env:"REDIS_URL"`
	RedisNamespace string `env:"REDIS_NAMESPACE" envDefault:"bot_admin"`

	// static bot declarations
	TelegramBots        string `env:"TELEGRAM_BOTS"`
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN" json:"-"`
	TelegramBotName     string `env:"TELEGRAM_BOT_NAME"`
	TelegramBotUsername string `env:"TELEGRAM_BOT_USERNAME"`
	DefaultBotID        string `env:"TELEGRAM_DEFAULT_BOT_ID"`

	// public URL construction
	Domain     string `env:"DOMAIN"`
	MiniAppURL string `env:"MINIAPP_URL"`
	MiniAppID  string `env:"MINIAPP_ID"`

	// AI provider
	OpenAIAPIKey          string   `env:"OPENAI_API_KEY" json:"-"`
	OpenAIDefaultModel    string   `env:"OPENAI_DEFAULT_MODEL" envDefault:"gpt-4o-mini"`
	OpenAISupportedModels []string `env:"OPENAI_SUPPORTED_MODELS" envSeparator:"," envDefault:"gpt-5,gpt-4o,gpt-4o-mini,gpt-3.5-turbo"`
}

// New app config
func New() (Config, error) {
	cfg := Config{}
	err := env.Parse(&cfg)
	return cfg, err
}

// HostedStore reports whether the hosted relational store is configured
func (c Config) HostedStore() bool {
	return c.DatabaseURL != ""
}

// AIConfigured reports whether an AI provider credential is present
func (c Config) AIConfigured() bool {
	return c.OpenAIAPIKey != ""
}
