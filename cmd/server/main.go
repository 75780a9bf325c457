package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deeppurple/emotion-engine/config"
	"github.com/deeppurple/emotion-engine/internal/analyzer"
	"github.com/deeppurple/emotion-engine/internal/api"
	"github.com/deeppurple/emotion-engine/internal/clients"
	"github.com/deeppurple/emotion-engine/internal/db"
	"github.com/deeppurple/emotion-engine/internal/events"
	"github.com/deeppurple/emotion-engine/internal/lexicon"
	"github.com/deeppurple/emotion-engine/internal/logging"
	"github.com/deeppurple/emotion-engine/internal/providers"
	"github.com/deeppurple/emotion-engine/internal/seed"
	"github.com/deeppurple/emotion-engine/internal/service"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := clients.InitPostgres(ctx, cfg.Postgres)
	if err != nil {
		slog.Error("[Main] Failed to connect to PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	lexiconStore := db.NewLexiconStore(pool)
	if err := seed.Run(ctx, lexiconStore); err != nil {
		slog.Error("[Main] Failed to seed lexicons", slog.String("error", err.Error()))
		os.Exit(1)
	}

	openAI, err := providers.NewOpenAI(cfg.OpenAI)
	if err != nil {
		slog.Error("[Main] OpenAI adapter unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	gemini, err := providers.NewGemini(cfg.Gemini)
	if err != nil {
		slog.Error("[Main] Gemini adapter unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	mistral, err := providers.NewMistral(cfg.Mistral)
	if err != nil {
		slog.Error("[Main] Mistral adapter unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	expander := lexicon.NewExpander(lexiconStore, openAI)
	core := analyzer.New(lexiconStore, expander,
		[]providers.Provider{openAI, gemini, mistral})

	history := db.NewCommunicationStore(clients.GetDynamoDBClient(), cfg.Dynamo.Table)

	var cache service.Cache
	if cfg.CacheEnabled() {
		valkeyClient, err := clients.InitValkey(cfg.Valkey)
		if err != nil {
			slog.Error("[Main] Failed to connect to Valkey", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer valkeyClient.Close()
		cache = valkeyClient
	}

	var publisher service.Publisher
	if cfg.EventsEnabled() {
		producer, err := events.NewProducer(cfg.Kafka)
		if err != nil {
			slog.Error("[Main] Failed to create Kafka producer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer producer.Close()
		publisher = producer
	}

	comms := service.NewCommunicationService(core, history, cache, publisher)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(comms, lexiconStore),
	}

	go func() {
		slog.Info("[Main] Listening", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Forced shutdown", slog.String("error", err.Error()))
	}
}
