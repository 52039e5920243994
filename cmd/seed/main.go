package main

import (
	"context"
	"log"
	"time"

	"fin-guardian/internal/repository"
	"fin-guardian/internal/service"
	"fin-guardian/migrations"
	"fin-guardian/pkg/config"
	"fin-guardian/pkg/logger"
	"fin-guardian/pkg/postgres"

	"go.uber.org/zap"
)

// seed prepares a Postgres database: schema first, then the default category taxonomy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("Starting database seeding...")

	if err := postgres.ApplyMigrations(ctx, db, migrations.FS, appLogger); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	transactionRepo := repository.NewTransactionRepository(db, appLogger)
	categories := service.NewCategoryService(categoryRepo, transactionRepo, appLogger)
	if err := categories.EnsureDefaults(ctx); err != nil {
		appLogger.Fatal("Failed to seed categories", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")
}
