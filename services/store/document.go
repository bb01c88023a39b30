package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/topito/bot-admin/services/apperrors"
)

// normalizeCommand trims and prefixes with / when missing. Empty stays empty.
func normalizeCommand(command string) string {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		return "/" + trimmed
	}
	return trimmed
}

// sanitizeButtons drops label-less buttons and assigns missing ids.
func sanitizeButtons(buttons []Button) []Button {
	out := make([]Button, 0, len(buttons))
	for _, button := range buttons {
		label := strings.TrimSpace(button.Label)
		if label == "" {
			continue
		}
		kind := button.Kind
		if kind == "" {
			kind = ButtonKindCommand
		}
		id := button.ID
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, Button{
			ID:    id,
			Label: label,
			Kind:  kind,
			Value: strings.TrimSpace(button.Value),
		})
	}
	return out
}

// normalizeConfig assigns settings defaults centrally so every consumer sees
// a fully populated value.
func normalizeConfig(cfg *BotConfig) {
	if cfg.Commands == nil {
		cfg.Commands = []Command{}
	}
	if cfg.QuickReplies == nil {
		cfg.QuickReplies = []QuickReply{}
	}
	if cfg.Settings.AIModel == "" {
		cfg.Settings.AIModel = DefaultAIModel
	}
	if cfg.Settings.AITemperature <= 0 {
		cfg.Settings.AITemperature = DefaultAITemperature
	}
	if cfg.Settings.AITemperature > 1 {
		cfg.Settings.AITemperature = 1
	}
}

// applyCommand creates or updates a command inside the document and returns
// the stored value. Uniqueness of the command text is case-insensitive per
// bot; duplicates are a conflict.
func applyCommand(cfg *BotConfig, input Command) (Command, error) {
	commandText := normalizeCommand(input.Command)

	if input.ID == "" {
		if commandText == "" {
			return Command{}, apperrors.Validationf("command text is required")
		}
		if strings.TrimSpace(input.Response) == "" {
			return Command{}, apperrors.Validationf("command response is required")
		}
		if findCommandByText(cfg.Commands, commandText, "") != -1 {
			return Command{}, apperrors.Conflictf("command %s already exists", commandText)
		}
		command := Command{
			ID:          uuid.NewString(),
			Command:     commandText,
			Description: strings.TrimSpace(input.Description),
			Response:    strings.TrimSpace(input.Response),
			Buttons:     sanitizeButtons(input.Buttons),
		}
		cfg.Commands = append(cfg.Commands, command)
		return command, nil
	}

	index := findCommandByID(cfg.Commands, input.ID)
	if index == -1 {
		return Command{}, apperrors.NotFoundf("command %s not found", input.ID)
	}
	current := cfg.Commands[index]
	if commandText == "" {
		commandText = current.Command
	}
	if findCommandByText(cfg.Commands, commandText, input.ID) != -1 {
		return Command{}, apperrors.Conflictf("command %s already exists", commandText)
	}
	if strings.TrimSpace(input.Response) == "" {
		return Command{}, apperrors.Validationf("command response is required")
	}
	current.Command = commandText
	current.Description = strings.TrimSpace(input.Description)
	current.Response = strings.TrimSpace(input.Response)
	current.Buttons = sanitizeButtons(input.Buttons)
	cfg.Commands[index] = current
	return current, nil
}

func deleteCommand(cfg *BotConfig, id string) error {
	index := findCommandByID(cfg.Commands, id)
	if index == -1 {
		return apperrors.NotFoundf("command %s not found", id)
	}
	cfg.Commands = append(cfg.Commands[:index], cfg.Commands[index+1:]...)
	return nil
}

// applyQuickReply creates or updates a quick reply. Keywords are not unique;
// first match wins at routing time by list order.
func applyQuickReply(cfg *BotConfig, input QuickReply) (QuickReply, error) {
	keyword := strings.TrimSpace(input.Keyword)
	response := strings.TrimSpace(input.Response)

	if input.ID == "" {
		if keyword == "" {
			return QuickReply{}, apperrors.Validationf("quick reply keyword is required")
		}
		if response == "" {
			return QuickReply{}, apperrors.Validationf("quick reply response is required")
		}
		title := strings.TrimSpace(input.Title)
		if title == "" {
			title = keyword
		}
		reply := QuickReply{
			ID:       uuid.NewString(),
			Title:    title,
			Keyword:  keyword,
			Response: response,
		}
		cfg.QuickReplies = append(cfg.QuickReplies, reply)
		return reply, nil
	}

	index := findQuickReplyByID(cfg.QuickReplies, input.ID)
	if index == -1 {
		return QuickReply{}, apperrors.NotFoundf("quick reply %s not found", input.ID)
	}
	current := cfg.QuickReplies[index]
	if keyword == "" {
		keyword = current.Keyword
	}
	if response == "" {
		return QuickReply{}, apperrors.Validationf("quick reply response is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = current.Title
	}
	current.Title = title
	current.Keyword = keyword
	current.Response = response
	cfg.QuickReplies[index] = current
	return current, nil
}

func deleteQuickReply(cfg *BotConfig, id string) error {
	index := findQuickReplyByID(cfg.QuickReplies, id)
	if index == -1 {
		return apperrors.NotFoundf("quick reply %s not found", id)
	}
	cfg.QuickReplies = append(cfg.QuickReplies[:index], cfg.QuickReplies[index+1:]...)
	return nil
}

// applySettings patches only the provided fields, then re-applies defaults.
func applySettings(cfg *BotConfig, patch SettingsPatch) Settings {
	s := &cfg.Settings
	if patch.DefaultResponse != nil {
		s.DefaultResponse = strings.TrimSpace(*patch.DefaultResponse)
	}
	if patch.AIPersona != nil {
		s.AIPersona = strings.TrimSpace(*patch.AIPersona)
	}
	if patch.AIEnabled != nil {
		s.AIEnabled = *patch.AIEnabled
	}
	if patch.AIModel != nil {
		s.AIModel = strings.TrimSpace(*patch.AIModel)
	}
	if patch.AITemperature != nil {
		s.AITemperature = *patch.AITemperature
	}
	if patch.AutoKeyboard != nil {
		s.AutoKeyboard = *patch.AutoKeyboard
	}
	if patch.AutoCommands != nil {
		s.AutoCommands = *patch.AutoCommands
	}
	if patch.MiniAppURL != nil {
		s.MiniAppURL = strings.TrimSpace(*patch.MiniAppURL)
	}
	if patch.WebhookURL != nil {
		s.WebhookURL = strings.TrimSpace(*patch.WebhookURL)
	}
	normalizeConfig(cfg)
	return cfg.Settings
}

func findCommandByID(commands []Command, id string) int {
	for i, command := range commands {
		if command.ID == id {
			return i
		}
	}
	return -1
}

func findCommandByText(commands []Command, text string, excludeID string) int {
	for i, command := range commands {
		if excludeID != "" && command.ID == excludeID {
			continue
		}
		if strings.EqualFold(command.Command, text) {
			return i
		}
	}
	return -1
}

func findQuickReplyByID(replies []QuickReply, id string) int {
	for i, reply := range replies {
		if reply.ID == id {
			return i
		}
	}
	return -1
}
