package service

import (
	"context"
	"time"

	"fin-guardian/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stores are satisfied by internal/repository (Postgres) and internal/repository/memory.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	LockForUpdate(ctx context.Context, id uuid.UUID) error
}

type CategoryStore interface {
	Create(ctx context.Context, cat *models.Category) error
	List(ctx context.Context, typ *models.EntryType) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string, typ models.EntryType) (*models.Category, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, int, error)
	ListRange(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Sum(ctx context.Context, filter models.TransactionFilter) (decimal.Decimal, error)
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	TotalsByCategory(ctx context.Context, filter models.TransactionFilter) ([]models.CategoryTotal, error)
	DailyTotals(ctx context.Context, filter models.TransactionFilter) ([]models.DailyTotal, error)
}

type BudgetStore interface {
	Create(ctx context.Context, b *models.Budget) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Budget, error)
	GetByCategory(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type SavingsGoalStore interface {
	Create(ctx context.Context, g *models.SavingsGoal) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.SavingsGoal, error)
	GetForUpdate(ctx context.Context, id, userID uuid.UUID) (*models.SavingsGoal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SavingsGoal, error)
	SumCurrent(ctx context.Context, userID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error)
	Update(ctx context.Context, g *models.SavingsGoal) error
}

type LifetimeSavingsStore interface {
	AddCompletion(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
	Get(ctx context.Context, userID uuid.UUID) (*models.LifetimeSavings, error)
}

type RecurringStore interface {
	Create(ctx context.Context, rt *models.RecurringTransaction) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.RecurringTransaction, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.RecurringTransaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RecurringTransaction, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.RecurringTransaction, error)
	Update(ctx context.Context, rt *models.RecurringTransaction) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// Transactor runs fn as one unit of work. Stores called with the ctx passed to fn join it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier is the write side of the notification queue.
type Notifier interface {
	Enqueue(userID uuid.UUID, message string, typ models.NotificationType)
}
