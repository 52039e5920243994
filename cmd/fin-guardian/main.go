package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fin-guardian/internal/api"
	"fin-guardian/internal/api/handlers"
	"fin-guardian/internal/repository"
	"fin-guardian/internal/repository/memory"
	"fin-guardian/internal/scheduler"
	"fin-guardian/internal/service"
	"fin-guardian/migrations"
	"fin-guardian/pkg/auth"
	"fin-guardian/pkg/config"
	"fin-guardian/pkg/logger"
	"fin-guardian/pkg/postgres"

	"go.uber.org/zap"
)

// @title Fin Guardian API
// @version 1.0
// @description Personal finance ledger: transactions, budgets, savings goals and recurring payments.

// @host localhost:3001
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

type stores struct {
	tx           service.Transactor
	users        service.UserStore
	categories   service.CategoryStore
	transactions service.TransactionStore
	budgets      service.BudgetStore
	goals        service.SavingsGoalStore
	lifetime     service.LifetimeSavingsStore
	recurring    service.RecurringStore
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting fin-guardian", zap.String("storage", cfg.Storage.Driver))

	ctx := context.Background()
	st, err := openStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer st.close()

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	var advisor service.Advisor
	if cfg.GigaChat.Enabled() {
		adviceService, err := service.NewAdviceService(ctx, &cfg.GigaChat, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize GigaChat client", zap.Error(err))
		}
		defer adviceService.Close()
		advisor = adviceService
	} else {
		appLogger.Info("GIGACHAT_API_KEY not set, analysis runs without LLM advice")
	}

	notifications := service.NewNotificationService(cfg.Notifications.PerUser, appLogger)
	authService := service.NewAuthService(st.users, jwtManager, appLogger)
	categoryService := service.NewCategoryService(st.categories, st.transactions, appLogger)
	budgetService := service.NewBudgetService(st.budgets, st.categories, st.transactions, appLogger)
	txService := service.NewTransactionService(st.tx, st.users, st.categories, st.transactions, budgetService, notifications, appLogger)
	savingsService := service.NewSavingsService(st.tx, st.users, st.goals, st.lifetime, st.transactions, st.categories, notifications, appLogger)
	lifetimeService := service.NewLifetimeService(st.lifetime, appLogger)
	recurringService := service.NewRecurringService(st.tx, st.recurring, st.transactions, st.categories, appLogger)
	reportService := service.NewReportService(st.transactions, advisor, appLogger)

	if err := categoryService.EnsureDefaults(ctx); err != nil {
		appLogger.Fatal("Failed to install default categories", zap.Error(err))
	}

	sched, err := scheduler.New(
		cfg.Scheduler.RecurringSpec,
		cfg.Scheduler.Location,
		recurringService,
		cfg.Scheduler.TickTimeout,
		cfg.Scheduler.RunOnStart,
		appLogger,
	)
	if err != nil {
		appLogger.Fatal("Failed to configure recurring scheduler", zap.Error(err))
	}
	sched.Start()

	app := api.SetupRouter(cfg.Server, api.Handlers{
		Auth:          handlers.NewAuthHandler(authService, appLogger),
		Transactions:  handlers.NewTransactionHandler(txService, appLogger),
		Budgets:       handlers.NewBudgetHandler(budgetService, appLogger),
		Savings:       handlers.NewSavingsHandler(savingsService, lifetimeService, appLogger),
		Recurring:     handlers.NewRecurringHandler(recurringService, appLogger),
		Reports:       handlers.NewReportHandler(reportService, categoryService, appLogger),
		Notifications: handlers.NewNotificationHandler(notifications, appLogger),
	}, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.TickTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		appLogger.Warn("Recurring run still in progress at shutdown", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case "memory":
		db := memory.New()
		appLogger.Warn("Using in-memory storage, data is lost on restart")
		return &stores{
			tx:           db,
			users:        db.Users(),
			categories:   db.Categories(),
			transactions: db.Transactions(),
			budgets:      db.Budgets(),
			goals:        db.SavingsGoals(),
			lifetime:     db.LifetimeSavings(),
			recurring:    db.Recurring(),
			close:        func() {},
		}, nil
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			return nil, err
		}
		if err := postgres.ApplyMigrations(ctx, pool, migrations.FS, appLogger); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			tx:           postgres.NewTransactor(pool, appLogger),
			users:        repository.NewUserRepository(pool, appLogger),
			categories:   repository.NewCategoryRepository(pool, appLogger),
			transactions: repository.NewTransactionRepository(pool, appLogger),
			budgets:      repository.NewBudgetRepository(pool, appLogger),
			goals:        repository.NewSavingsGoalRepository(pool, appLogger),
			lifetime:     repository.NewLifetimeSavingsRepository(pool, appLogger),
			recurring:    repository.NewRecurringRepository(pool, appLogger),
			close:        pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}
