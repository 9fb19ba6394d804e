package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tradeflow/reconengine/internal/adapter/cache"
	"github.com/tradeflow/reconengine/internal/adapter/mailbox"
	"github.com/tradeflow/reconengine/internal/adapter/pg"
	"github.com/tradeflow/reconengine/internal/adapter/report"
	httpapi "github.com/tradeflow/reconengine/internal/api/http"
	"github.com/tradeflow/reconengine/internal/config"
	"github.com/tradeflow/reconengine/internal/logging"
	"github.com/tradeflow/reconengine/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	if err := pg.Migrate(cfg.PostgresURL); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()
	repo := pg.NewRepository(pool)

	statusCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.StatusTTL)
	defer statusCache.Close()

	fills := mailbox.NewSource(cfg.MailboxDir, logger)
	reports := report.NewGenerator(cfg.ReportDir)

	runs := service.NewRunService(repo, statusCache, repo, fills, reports, logger, cfg.RunTimeout)

	server := httpapi.NewHTTPServer(runs, reports, logger, cfg.TriggerInterval)
	logger.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
	if err := server.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
