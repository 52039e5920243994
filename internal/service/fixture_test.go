package service

import (
	"context"
	"testing"
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fixture wires every service onto one in-memory ledger with a frozen clock.
type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *memory.DB
	now time.Time

	notifications *NotificationService
	budgets       *BudgetService
	transactions  *TransactionService
	savings       *SavingsService
	recurring     *RecurringService
	reports       *ReportService
	categories    *CategoryService
	lifetime      *LifetimeService

	userID uuid.UUID
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	log := zap.NewNop()
	db := memory.New()
	clock := func() time.Time { return now }

	f := &fixture{
		t:   t,
		ctx: context.Background(),
		db:  db,
		now: now,
	}

	f.notifications = NewNotificationService(20, log)
	f.notifications.now = clock

	f.budgets = NewBudgetService(db.Budgets(), db.Categories(), db.Transactions(), log)
	f.budgets.now = clock

	f.transactions = NewTransactionService(db, db.Users(), db.Categories(), db.Transactions(), f.budgets, f.notifications, log)
	f.transactions.now = clock

	f.savings = NewSavingsService(db, db.Users(), db.SavingsGoals(), db.LifetimeSavings(), db.Transactions(), db.Categories(), f.notifications, log)
	f.savings.now = clock

	f.recurring = NewRecurringService(db, db.Recurring(), db.Transactions(), db.Categories(), log)
	f.recurring.now = clock

	f.reports = NewReportService(db.Transactions(), nil, log)
	f.reports.now = clock

	f.categories = NewCategoryService(db.Categories(), db.Transactions(), log)
	f.categories.now = clock

	f.lifetime = NewLifetimeService(db.LifetimeSavings(), log)

	f.userID = f.addUser("alice")
	return f
}

func (f *fixture) addUser(name string) uuid.UUID {
	f.t.Helper()
	u := &models.User{
		ID:        uuid.New(),
		Username:  name,
		Email:     name + "@example.com",
		Password:  "x",
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	if err := f.db.Users().Create(f.ctx, u); err != nil {
		f.t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func (f *fixture) category(name string, typ models.EntryType) int64 {
	f.t.Helper()
	c, err := f.db.Categories().GetByName(f.ctx, name, typ)
	if err != nil {
		f.t.Fatalf("category %q: %v", name, err)
	}
	return c.ID
}

// seedTx stores a transaction directly, bypassing budget checks.
func (f *fixture) seedTx(userID uuid.UUID, categoryID int64, typ models.EntryType, amount string, at time.Time) {
	f.t.Helper()
	tx := &models.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Type:       typ,
		CreatedAt:  at,
	}
	if err := f.db.Transactions().Create(f.ctx, tx); err != nil {
		f.t.Fatalf("seed transaction: %v", err)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
