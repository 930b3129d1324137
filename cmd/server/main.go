package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/config"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/handler"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/metrics"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/middleware"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/repository"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/router"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/service"
)

// sweepInterval paces the expired-entry reaper on engines without native
// key expiry.
const sweepInterval = time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "newsvotes-api")
	metrics.Register()

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.KVBackend, err)
	}
	defer store.Close()

	if sweepable, ok := store.(kv.Sweepable); ok {
		sweeper := kv.NewSweeper(sweepable, sweepInterval)
		go sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	counters := repository.NewCounterRepo(store)
	votes := service.NewVoteService(
		repository.NewLedgerRepo(store),
		repository.NewRateRepo(store),
		counters,
		repository.NewMetaRepo(store),
	)
	summaries := service.NewSummaryService(counters, service.NewCacheService(store))
	rankings := service.NewRankingService(counters)

	h := &router.Handlers{
		Vote:     handler.NewVoteHandler(votes),
		Counts:   handler.NewCountsHandler(summaries),
		Rankings: handler.NewRankingsHandler(rankings),
		Stats:    handler.NewStatsHandler(rankings),
		Health:   handler.NewHealthHandler(store, cfg.KVBackend),
	}

	app := fiber.New(fiber.Config{
		AppName:      "News Votes API",
		ServerHeader: "newsvotes",
	})

	router.Setup(app, h, cfg.CORSOrigins)

	log.Printf("votes backend starting on :%s (env=%s, store=%s)", cfg.Port, cfg.Environment, cfg.KVBackend)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func openStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.KVBackend {
	case "redis":
		return kv.NewRedisStore(ctx, cfg.RedisURL)
	case "postgres":
		return kv.NewPostgresStore(ctx, cfg.DatabaseURL)
	case "memory":
		log.Println("memory store selected: state will not survive restarts")
		return kv.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown KV_BACKEND %q (want redis, postgres, or memory)", cfg.KVBackend)
	}
}
