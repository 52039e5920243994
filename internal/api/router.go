package api

import (
	"errors"
	"time"

	"fin-guardian/docs"
	"fin-guardian/internal/api/handlers"
	"fin-guardian/pkg/auth"
	"fin-guardian/pkg/config"
	"fin-guardian/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Transactions  *handlers.TransactionHandler
	Budgets       *handlers.BudgetHandler
	Savings       *handlers.SavingsHandler
	Recurring     *handlers.RecurringHandler
	Reports       *handlers.ReportHandler
	Notifications *handlers.NotificationHandler
}

// ErrorHandler renders errors that handlers return instead of writing themselves.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func SetupRouter(cfg config.ServerConfig, h Handlers, jwtManager *auth.JWTManager, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo // registers the generated OpenAPI document via init()
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))
	protected.Get("/users/me", h.Auth.Me)

	transactions := protected.Group("/transactions")
	transactions.Post("", h.Transactions.CreateTransaction)
	transactions.Get("", h.Transactions.ListTransactions)
	transactions.Get("/:id", h.Transactions.GetTransaction)
	transactions.Patch("/:id", h.Transactions.UpdateTransaction)
	transactions.Delete("/:id", h.Transactions.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.Post("", h.Budgets.CreateBudget)
	budgets.Get("", h.Budgets.ListBudgets)
	budgets.Get("/:categoryId/almost", h.Budgets.BudgetStatus)
	budgets.Patch("/:id", h.Budgets.UpdateBudget)
	budgets.Delete("/:id", h.Budgets.DeleteBudget)

	// /stats must precede /:id
	goals := protected.Group("/savings-goals")
	goals.Post("", h.Savings.CreateGoal)
	goals.Get("", h.Savings.ListGoals)
	goals.Get("/stats", h.Savings.Stats)
	goals.Get("/:id", h.Savings.GetGoal)
	goals.Get("/:id/progress", h.Savings.Progress)
	goals.Get("/:id/recommendation", h.Savings.Recommendation)
	goals.Post("/:id/deposit", h.Savings.Deposit)
	goals.Patch("/:id/deposit", h.Savings.Deposit)
	goals.Patch("/:id/withdraw", h.Savings.Withdraw)
	goals.Patch("/:id/mark-used", h.Savings.MarkUsed)
	goals.Delete("/:id/delete-and-refund", h.Savings.DeleteAndRefund)
	goals.Delete("/:id", h.Savings.DeleteGoal)

	protected.Get("/lifetime-savings", h.Savings.Lifetime)

	recurring := protected.Group("/recurring-transactions")
	recurring.Post("", h.Recurring.CreateRecurring)
	recurring.Get("", h.Recurring.ListRecurring)
	recurring.Patch("/:id", h.Recurring.UpdateRecurring)
	recurring.Delete("/:id", h.Recurring.DeleteRecurring)

	categories := protected.Group("/categories")
	categories.Get("", h.Reports.ListCategories)
	categories.Get("/stats", h.Reports.CategoryStats)
	categories.Get("/type/:type", h.Reports.ListCategoriesByType)

	protected.Get("/dashboard/summary", h.Reports.Summary)

	reports := protected.Group("/reports")
	reports.Get("/trend", h.Reports.Trend)
	reports.Get("/category", h.Reports.ByCategory)
	reports.Get("/analysis", h.Reports.Analysis)

	protected.Get("/export/csv", h.Reports.ExportCSV)

	notifications := protected.Group("/notifications")
	notifications.Get("", h.Notifications.ListNotifications)
	notifications.Delete("", h.Notifications.ClearNotifications)

	return app
}
