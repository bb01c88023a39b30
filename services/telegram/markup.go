package telegram

import (
	"strings"

	"github.com/topito/bot-admin/services/store"
)

// WebAppFallback holds the process-wide defaults used to resolve a web_app
// button URL when neither the button nor the bot settings carry one.
type WebAppFallback struct {
	MiniAppURL string
	Domain     string
	MiniAppID  string
}

// resolve the fallback chain: configured mini-app URL, then a URL built from
// the public domain and the mini-app (or bot) identifier.
func (f WebAppFallback) resolve(botID string, settings store.Settings) string {
	if settings.MiniAppURL != "" {
		return settings.MiniAppURL
	}
	if f.MiniAppURL != "" {
		return f.MiniAppURL
	}
	if f.Domain != "" {
		base := f.Domain
		if !strings.HasPrefix(base, "http") {
			base = "https://" + base
		}
		id := f.MiniAppID
		if id == "" {
			id = botID
		}
		if id == "" {
			id = "miniapp"
		}
		return strings.TrimRight(base, "/") + "/miniapp/" + id
	}
	return ""
}

// BuildReplyMarkup converts abstract buttons into provider markup. Buttons
// without a label or kind are never rendered. A set containing any
// non-command button renders as an inline keyboard, one button per row;
// otherwise it renders as a resizable reply keyboard. Returns nil when
// nothing is left to render.
func BuildReplyMarkup(buttons []store.Button, botID string, settings store.Settings, fallback WebAppFallback) interface{} {
	filtered := make([]store.Button, 0, len(buttons))
	for _, button := range buttons {
		if button.Label == "" || button.Kind == "" {
			continue
		}
		filtered = append(filtered, button)
	}
	if len(filtered) == 0 {
		return nil
	}

	inline := false
	for _, button := range filtered {
		if button.Kind != store.ButtonKindCommand {
			inline = true
			break
		}
	}

	if inline {
		rows := make([][]InlineKeyboardButton, 0, len(filtered))
		for _, button := range filtered {
			switch button.Kind {
			case store.ButtonKindURL:
				rows = append(rows, []InlineKeyboardButton{{Text: button.Label, URL: button.Value}})
			case store.ButtonKindWebApp:
				url := button.Value
				if url == "" {
					url = fallback.resolve(botID, settings)
				}
				if url == "" {
					// no URL anywhere, degrade to a callback button
					data := button.Value
					if data == "" {
						data = button.Label
					}
					rows = append(rows, []InlineKeyboardButton{{Text: button.Label, CallbackData: data}})
					continue
				}
				rows = append(rows, []InlineKeyboardButton{{Text: button.Label, WebApp: &WebAppInfo{URL: url}}})
			default:
				data := button.Value
				if data == "" {
					data = button.Label
				}
				rows = append(rows, []InlineKeyboardButton{{Text: button.Label, CallbackData: data}})
			}
		}
		return &InlineKeyboardMarkup{InlineKeyboard: rows}
	}

	rows := make([][]KeyboardButton, 0, len(filtered))
	for _, button := range filtered {
		text := button.Value
		if text == "" {
			text = button.Label
		}
		rows = append(rows, []KeyboardButton{{Text: text}})
	}
	return &ReplyKeyboardMarkup{
		Keyboard:        rows,
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}
}
