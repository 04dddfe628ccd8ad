package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/domain/order"
	"venuebook/internal/logger"
)

// purge removes orders and assignments that were soft-deleted more than
// PURGE_AFTER ago. Meant to run from cron.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog, err := logger.New(logger.Options{
		Service: "venuebook-purge",
		Dir:     cfg.LogDir,
		Level:   logger.ParseLevel(cfg.LogLevel),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer appLog.Close()

	db, err := database.Connect(cfg.DatabaseURL, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		appLog.Fatal("DATABASE", "db connect failed: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svc := order.NewService(order.NewGateway(db), appLog)
	res, err := svc.Purge(ctx, time.Now().Add(-cfg.PurgeAfter))
	if err != nil {
		appLog.Fatal("PURGE", "purge failed: "+err.Error())
	}
	appLog.Info("PURGE", fmt.Sprintf("purge completed: orders=%d beos=%d", res.Orders, res.Beos))
}
