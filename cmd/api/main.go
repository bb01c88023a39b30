package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/gocraft/work"
	"github.com/gomodule/redigo/redis"

	"github.com/topito/bot-admin/cmd/api/config"
	"github.com/topito/bot-admin/cmd/api/handlers"
	"github.com/topito/bot-admin/services/ai"
	"github.com/topito/bot-admin/services/logger"
	"github.com/topito/bot-admin/services/postgres"
	"github.com/topito/bot-admin/services/registry"
	"github.com/topito/bot-admin/services/router"
	"github.com/topito/bot-admin/services/sender"
	"github.com/topito/bot-admin/services/store"
	"github.com/topito/bot-admin/services/telegram"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load env vars: %v", err)
	}

	// initialise services
	l := logger.New("bot-admin")
	defer l.Sync()

	staticBots := registry.ParseEnvBots(
		cfg.TelegramBots,
		cfg.TelegramBotToken,
		cfg.TelegramBotName,
		cfg.TelegramBotUsername,
		cfg.MiniAppURL,
		l,
	)

	// the store and registry backends are selected exactly once at startup
	var st store.Store
	var reg registry.Registry
	if cfg.HostedStore() {
		db, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to initialise DB connection: %v", err)
		}
		st = store.NewSQLStore(db, l)
		reg = registry.NewSQLRegistry(db, staticBots, cfg.DefaultBotID, l)
	} else {
		st = store.NewFileStore(cfg.DataFile, l)
		reg = registry.NewEnvRegistry(staticBots, cfg.DefaultBotID, l)
	}

	ctx := context.Background()
	if err := reg.EnsureReady(ctx); err != nil {
		log.Fatalf("failed to initialise bot registry: %v", err)
	}
	if err := bootstrapStore(ctx, st, staticBots, cfg.HostedStore()); err != nil {
		log.Fatalf("failed to initialise config store: %v", err)
	}

	client := telegram.NewClient(l)
	gen := ai.New(cfg.OpenAIAPIKey, cfg.OpenAIDefaultModel, cfg.OpenAISupportedModels, l)
	snd := sender.New(reg, st, client, telegram.WebAppFallback{
		MiniAppURL: cfg.MiniAppURL,
		Domain:     cfg.Domain,
		MiniAppID:  cfg.MiniAppID,
	}, cfg.Domain, l)
	rt := router.New(st, snd, gen, l)

	h := handlers.New(l, cfg, st, reg, snd, rt, gen)

	if cfg.RedisURL != "" {
		pool := startWorkerPool(cfg, h)
		defer pool.Stop()
	}

	// initialise main router with basic middlewares
	mux := mainRouter()

	// mount services
	mux.Mount("/", h.Routes())

	err = http.ListenAndServe(":"+cfg.Port, mux)
	if err != nil {
		log.Print(err)
	}
}

// bootstrapStore seeds storage for every statically declared bot; hosted
// mode only prepares the schema, rows are seeded lazily per bot.
func bootstrapStore(ctx context.Context, st store.Store, staticBots []registry.Bot, hosted bool) error {
	if hosted {
		return st.EnsureReady(ctx, "")
	}
	if len(staticBots) == 0 {
		return st.EnsureReady(ctx, registry.PrimaryBotID)
	}
	for _, bot := range staticBots {
		if err := st.EnsureReady(ctx, bot.ID); err != nil {
			return err
		}
	}
	return nil
}

// startWorkerPool runs the periodic bot sync job against redis
func startWorkerPool(cfg config.Config, h *handlers.Handlers) *work.WorkerPool {
	redisPool := &redis.Pool{
		MaxActive: 5,
		MaxIdle:   5,
		Wait:      true,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(cfg.RedisURL)
		},
	}

	pool := work.NewWorkerPool(struct{}{}, 2, cfg.RedisNamespace, redisPool)
	pool.Job(handlers.JobSyncBots, h.JobSyncBots)
	pool.PeriodicallyEnqueue("0 */10 * * * *", handlers.JobSyncBots)
	pool.Start()

	// stop cleanly on termination so in-flight jobs finish
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		pool.Stop()
		os.Exit(0)
	}()

	return pool
}

func mainRouter() chi.Router {
	router := chi.NewRouter()

	// A good base middleware stack
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// stop crawlers
	router.Get("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /"))
	})

	return router
}
