// Command housekeeping purges abandoned orders and idle anonymous carts once
// and exits. It is meant for cron jobs and other external schedulers; the
// server runs the same tasks in process when scheduler.enabled is set.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tradeapp "github.com/drobe/backend/internal/application/trade"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/infrastructure/config"
	"github.com/drobe/backend/internal/infrastructure/logger"
	"github.com/drobe/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Give up after this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	housekeeping := tradeapp.NewHousekeepingService(
		persistence.NewGormOrderRepository(db.DB),
		persistence.NewGormCartRepository(db.DB),
		tradeapp.HousekeepingConfig{
			AbandonedOrderAge: cfg.Shop.AbandonedOrderAge,
			IdleCartAge:       cfg.Shop.IdleCartAge,
		},
		shared.SystemClock{},
		log,
	)

	result, err := housekeeping.Run(ctx)
	if err != nil {
		log.Error("Housekeeping failed",
			zap.Error(err),
			zap.Int64("orders_purged", result.OrdersPurged),
			zap.Int64("carts_purged", result.CartsPurged),
		)
		_ = log.Sync()
		os.Exit(1)
	}
}
