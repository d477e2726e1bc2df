package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/dedupe"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/history"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/nodes"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/tools"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/core"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/media"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/server"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/store"
	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
	pkgredis "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Infrastructure
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./tapfit.db"`
	HTTP         server.Config
	Redis        pkgredis.Config
	Media        media.Config

	// Assistant configs
	Chat      model.ChatModelConfig
	Nutrition model.NutritionModelConfig
	Image     model.ImageModelConfig
	Prompt    model.PromptConfig
	Dedupe    model.DedupeConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to open fitness store")
	}
	defer db.Close()

	mediaStore, err := media.NewStore(cfg.Media)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise media store")
	}

	var deduper model.Deduper = dedupe.Disabled{}
	if cfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(cfg.Dedupe.TTL)
		if err != nil {
			logx.Fatal().Str("ttl", cfg.Dedupe.TTL).Err(err).Msg("Invalid DEDUPE_TTL")
		}
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()
		deduper = dedupe.NewRedisDeduper(rdb, ttl)
		logx.Info().Msg("Request deduplication enabled")
	} else {
		logx.Warn().Msg("REDIS_URL not set; request deduplication disabled")
	}

	models, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Chat:      &cfg.Chat,
		Nutrition: &cfg.Nutrition,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat models")
	}

	var imageGen tools.ImageGenerator
	if cfg.Image.Enabled {
		imageGen = tools.NewImagenGenerator(models.Client, cfg.Image.Model)
	}

	svc := assistant.NewService(assistant.ServiceConfig{
		ChatFull:   models.Full,
		ChatNav:    models.NavOnly,
		Aggregator: history.NewAggregator(db, cfg.Prompt),
		Dispatcher: tools.NewDispatcher(db, mediaStore, deduper,
			tools.NewNutritionClient(models.Nutrition), imageGen),
		Store:     db,
		PromptCfg: cfg.Prompt,
	})

	srv := server.New(svc, mediaStore.Dir(), cfg.HTTP)
	if err := srv.Start(ctx); err != nil {
		logx.Fatal().Err(err).Msg("HTTP server failed")
	}
	logx.Info().Msg("Shutdown complete")
}
