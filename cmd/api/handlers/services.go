package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/topito/bot-admin/cmd/api/config"
	"github.com/topito/bot-admin/services/ai"
	"github.com/topito/bot-admin/services/registry"
	"github.com/topito/bot-admin/services/router"
	"github.com/topito/bot-admin/services/sender"
	"github.com/topito/bot-admin/services/store"
)

// Handlers struct
type Handlers struct {
	logger   *zap.Logger
	cfg      config.Config
	store    store.Store
	registry registry.Registry
	sender   *sender.Sender
	router   *router.Router
	ai       *ai.Generator
	validate *validator.Validate
}

// New service
func New(
	logger *zap.Logger,
	cfg config.Config,
	st store.Store,
	reg registry.Registry,
	snd *sender.Sender,
	rt *router.Router,
	gen *ai.Generator,
) *Handlers {
	return &Handlers{
		logger:   logger,
		cfg:      cfg,
		store:    st,
		registry: reg,
		sender:   snd,
		router:   rt,
		ai:       gen,
		validate: validator.New(),
	}
}
