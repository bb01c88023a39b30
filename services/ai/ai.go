package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/topito/bot-admin/services/apperrors"
)

// FallbackModel when neither settings nor environment name one
const FallbackModel = "gpt-4o-mini"

// apologyText is substituted when the provider returns an empty payload.
const apologyText = "Sorry, I can't put together a reply right now. Please try again or add a little more detail."

// CompletionRequest for one generated reply
type CompletionRequest struct {
	Prompt      string
	Persona     string
	Model       string
	Temperature float64
}

// Generator produces fallback replies through an LLM completion endpoint.
// A nil client means no credential was configured.
type Generator struct {
	client       *openai.Client
	defaultModel string
	supported    []string
	logger       *zap.Logger
}

// New generator. An empty API key leaves the generator unconfigured, which
// disables the AI fallback path.
func New(apiKey string, defaultModel string, supportedModels []string, logger *zap.Logger) *Generator {
	g := &Generator{
		defaultModel: defaultModel,
		supported:    supportedModels,
		logger:       logger,
	}
	if g.defaultModel == "" {
		g.defaultModel = FallbackModel
	}
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
	}
	return g
}

// Configured reports whether a provider credential is present
func (g *Generator) Configured() bool {
	return g.client != nil
}

// DefaultModel used when a request names none
func (g *Generator) DefaultModel() string {
	return g.defaultModel
}

// SupportedModels returns the default model followed by the configured list,
// deduplicated in order.
func (g *Generator) SupportedModels() []string {
	seen := map[string]bool{}
	models := []string{}
	for _, model := range append([]string{g.defaultModel}, g.supported...) {
		model = strings.TrimSpace(model)
		if model == "" || seen[model] {
			continue
		}
		seen[model] = true
		models = append(models, model)
	}
	return models
}

// Complete generates a reply for the prompt. An empty completion payload is
// substituted with a fixed apology rather than surfaced as an error.
func (g *Generator) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if g.client == nil {
		return "", apperrors.New(apperrors.KindProviderUnavailable, "no AI provider credential configured")
	}

	model := req.Model
	if model == "" {
		model = g.defaultModel
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = 0.2
	}

	res, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req.Persona)},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		g.logger.Error("completion request failed", zap.String("model", model), zap.Error(err))
		return "", apperrors.Wrap(apperrors.KindProvider, "completion request failed", err)
	}

	if len(res.Choices) == 0 || strings.TrimSpace(res.Choices[0].Message.Content) == "" {
		return apologyText, nil
	}
	return res.Choices[0].Message.Content, nil
}

func systemPrompt(persona string) string {
	lines := []string{
		"You are the assistant behind a Telegram bot, answering user messages.",
		"Keep replies short, clear, and stick to the essentials.",
	}
	if persona != "" {
		lines = append(lines, "Bot persona: "+persona)
	}
	lines = append(lines, "If you are missing details, politely ask for them.")
	return strings.Join(lines, "\n")
}
