package store

import "github.com/google/uuid"

// seedConfig is the starter configuration written the first time a bot's
// storage is created, so a freshly connected bot answers something useful.
func seedConfig() BotConfig {
	cfg := BotConfig{
		Commands: []Command{
			{
				ID:          uuid.NewString(),
				Command:     "/start",
				Description: "Getting started",
				Response:    "Hello! This assistant can answer your questions and take you straight to our mini apps.",
				Buttons: []Button{
					{ID: uuid.NewString(), Label: "Ask a question", Kind: ButtonKindCommand, Value: "/help"},
					{ID: uuid.NewString(), Label: "Open Mini App", Kind: ButtonKindWebApp},
				},
			},
			{
				ID:          uuid.NewString(),
				Command:     "/help",
				Description: "Topics you can ask about",
				Response:    "You can ask about orders, delivery, or talk to the team.",
				Buttons: []Button{
					{ID: uuid.NewString(), Label: "Track my order", Kind: ButtonKindCommand, Value: "/track"},
					{ID: uuid.NewString(), Label: "Contact the team", Kind: ButtonKindCommand, Value: "/support"},
				},
			},
		},
		QuickReplies: []QuickReply{
			{
				ID:       uuid.NewString(),
				Title:    "Opening hours",
				Keyword:  "hours",
				Response: "The team is available every day from 09:00 to 18:00.",
			},
			{
				ID:       uuid.NewString(),
				Title:    "Delivery status",
				Keyword:  "delivery",
				Response: "To check a delivery, send /track followed by your order number.",
			},
		},
		Settings: Settings{
			DefaultResponse: "Thanks for reaching out! The team will reply as soon as possible.",
		},
	}
	normalizeConfig(&cfg)
	return cfg
}
