package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topito/bot-admin/services/store"
)

func TestBuildReplyMarkupEmptyInput(t *testing.T) {
	assert.Nil(t, BuildReplyMarkup(nil, "bot", store.Settings{}, WebAppFallback{}))
	assert.Nil(t, BuildReplyMarkup([]store.Button{}, "bot", store.Settings{}, WebAppFallback{}))
}

func TestBuildReplyMarkupDropsUnrenderableButtons(t *testing.T) {
	buttons := []store.Button{
		{Label: "", Kind: store.ButtonKindCommand, Value: "/a"},
		{Label: "NoKind", Kind: "", Value: "/b"},
	}
	assert.Nil(t, BuildReplyMarkup(buttons, "bot", store.Settings{}, WebAppFallback{}))
}

func TestBuildReplyMarkupAllCommandButtonsIsReplyKeyboard(t *testing.T) {
	buttons := []store.Button{
		{Label: "One", Kind: store.ButtonKindCommand, Value: "/one"},
		{Label: "Two", Kind: store.ButtonKindCommand},
		{Label: "Three", Kind: store.ButtonKindCommand, Value: "/three"},
	}

	markup := BuildReplyMarkup(buttons, "bot", store.Settings{}, WebAppFallback{})
	keyboard, ok := markup.(*ReplyKeyboardMarkup)
	require.True(t, ok)

	require.Len(t, keyboard.Keyboard, 3)
	assert.Equal(t, "/one", keyboard.Keyboard[0][0].Text)
	// label fallback when value is absent
	assert.Equal(t, "Two", keyboard.Keyboard[1][0].Text)
	assert.True(t, keyboard.ResizeKeyboard)
	assert.False(t, keyboard.OneTimeKeyboard)
}

func TestBuildReplyMarkupMixedKindsIsInlineKeyboard(t *testing.T) {
	buttons := []store.Button{
		{Label: "Site", Kind: store.ButtonKindURL, Value: "https://example.com"},
		{Label: "Go", Kind: store.ButtonKindCommand, Value: "/go"},
	}

	markup := BuildReplyMarkup(buttons, "bot", store.Settings{}, WebAppFallback{})
	keyboard, ok := markup.(*InlineKeyboardMarkup)
	require.True(t, ok)

	require.Len(t, keyboard.InlineKeyboard, 2)
	assert.Equal(t, "https://example.com", keyboard.InlineKeyboard[0][0].URL)
	assert.Equal(t, "/go", keyboard.InlineKeyboard[1][0].CallbackData)
}

func TestBuildReplyMarkupCommandButtonLabelFallback(t *testing.T) {
	buttons := []store.Button{
		{Label: "Open", Kind: store.ButtonKindURL, Value: "https://example.com"},
		{Label: "Press me", Kind: store.ButtonKindCommand},
	}

	markup := BuildReplyMarkup(buttons, "bot", store.Settings{}, WebAppFallback{})
	keyboard := markup.(*InlineKeyboardMarkup)
	assert.Equal(t, "Press me", keyboard.InlineKeyboard[1][0].CallbackData)
}

func TestBuildReplyMarkupWebAppWithValue(t *testing.T) {
	buttons := []store.Button{
		{Label: "App", Kind: store.ButtonKindWebApp, Value: "https://app.example.com"},
	}

	markup := BuildReplyMarkup(buttons, "bot", store.Settings{}, WebAppFallback{})
	keyboard := markup.(*InlineKeyboardMarkup)
	require.NotNil(t, keyboard.InlineKeyboard[0][0].WebApp)
	assert.Equal(t, "https://app.example.com", keyboard.InlineKeyboard[0][0].WebApp.URL)
}

func TestBuildReplyMarkupWebAppFallbackChain(t *testing.T) {
	buttons := []store.Button{{Label: "App", Kind: store.ButtonKindWebApp}}

	tests := []struct {
		name     string
		settings store.Settings
		fallback WebAppFallback
		wantURL  string
	}{
		{
			name:     "settings mini app url first",
			settings: store.Settings{MiniAppURL: "https://settings.example.com"},
			fallback: WebAppFallback{MiniAppURL: "https://env.example.com"},
			wantURL:  "https://settings.example.com",
		},
		{
			name:     "process-wide mini app url next",
			fallback: WebAppFallback{MiniAppURL: "https://env.example.com"},
			wantURL:  "https://env.example.com",
		},
		{
			name:     "domain with mini app id",
			fallback: WebAppFallback{Domain: "example.com", MiniAppID: "shop"},
			wantURL:  "https://example.com/miniapp/shop",
		},
		{
			name:     "domain with bot id path",
			fallback: WebAppFallback{Domain: "https://example.com/"},
			wantURL:  "https://example.com/miniapp/bot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := BuildReplyMarkup(buttons, "bot", tt.settings, tt.fallback)
			keyboard := markup.(*InlineKeyboardMarkup)
			require.NotNil(t, keyboard.InlineKeyboard[0][0].WebApp)
			assert.Equal(t, tt.wantURL, keyboard.InlineKeyboard[0][0].WebApp.URL)
		})
	}
}

func TestBuildReplyMarkupWebAppWithoutAnyURLDegradesToCallback(t *testing.T) {
	buttons := []store.Button{{Label: "App", Kind: store.ButtonKindWebApp}}

	markup := BuildReplyMarkup(buttons, "bot", store.Settings{}, WebAppFallback{})
	keyboard := markup.(*InlineKeyboardMarkup)
	button := keyboard.InlineKeyboard[0][0]
	assert.Nil(t, button.WebApp)
	// the button is never omitted
	assert.Equal(t, "App", button.Text)
	assert.Equal(t, "App", button.CallbackData)
}
