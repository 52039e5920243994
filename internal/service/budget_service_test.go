package service

import (
	"errors"
	"testing"
	"time"

	"fin-guardian/internal/models"

	"github.com/shopspring/decimal"
)

func TestWindowStart(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		period    models.BudgetPeriod
		createdAt time.Time
		want      time.Time
	}{
		{"monthly old budget", models.BudgetPeriodMonthly, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"monthly budget created mid month", models.BudgetPeriodMonthly, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)},
		{"weekly old budget", models.BudgetPeriodWeekly, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)},
		{"weekly fresh budget", models.BudgetPeriodWeekly, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowStart(tt.period, now, tt.createdAt); !got.Equal(tt.want) {
				t.Errorf("WindowStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckBudgetAlert(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		budgetCreated time.Time
		candidate     string
		wantAlert     bool
		wantOverspent string
		wantRemaining string
	}{
		{"over the limit", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "100", true, "50", ""},
		{"exactly at the limit", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "50", false, "", "0"},
		{"status without candidate", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "0", false, "", "50"},
		// the 450 spent on March 5th predates the budget
		{"expenses before the budget are ignored", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), "100", false, "", "400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, now)
			food := f.category("Food", models.EntryTypeExpense)

			f.budgets.now = func() time.Time { return tt.budgetCreated }
			if _, err := f.budgets.Create(f.ctx, f.userID, food, dec("500"), models.BudgetPeriodMonthly); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			f.budgets.now = func() time.Time { return now }

			f.seedTx(f.userID, food, models.EntryTypeExpense, "450", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
			// previous month and income never count
			f.seedTx(f.userID, food, models.EntryTypeExpense, "1000", time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC))
			f.seedTx(f.userID, food, models.EntryTypeIncome, "999", time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC))

			alert, err := f.budgets.CheckBudgetAlert(f.ctx, f.userID, food, dec(tt.candidate), "")
			if err != nil {
				t.Fatalf("CheckBudgetAlert() error = %v", err)
			}
			if alert == nil {
				t.Fatal("expected an alert result")
			}
			if alert.Alert != tt.wantAlert {
				t.Fatalf("Alert = %v, want %v", alert.Alert, tt.wantAlert)
			}
			if tt.wantAlert {
				assertDecimal(t, "Overspent", alert.Overspent, tt.wantOverspent)
			} else {
				assertDecimal(t, "Remaining", alert.Remaining, tt.wantRemaining)
			}
		})
	}
}

func TestCheckBudgetAlert_NoBudget(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	food := f.category("Food", models.EntryTypeExpense)

	alert, err := f.budgets.CheckBudgetAlert(f.ctx, f.userID, food, dec("100"), "")
	if err != nil {
		t.Fatalf("CheckBudgetAlert() error = %v", err)
	}
	if alert != nil {
		t.Errorf("expected no alert, got %+v", alert)
	}

	if _, err := f.budgets.Status(f.ctx, f.userID, food); !errors.Is(err, ErrBudgetNotFound) {
		t.Errorf("Status() error = %v, want ErrBudgetNotFound", err)
	}
}

func TestCheckBudgetAlert_Validation(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	food := f.category("Food", models.EntryTypeExpense)

	if _, err := f.budgets.CheckBudgetAlert(f.ctx, f.userID, food, dec("-1"), ""); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative candidate: error = %v, want ErrInvalidAmount", err)
	}
	if _, err := f.budgets.CheckBudgetAlert(f.ctx, f.userID, food, decimal.Zero, "yearly"); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("bad period: error = %v, want ErrInvalidPeriod", err)
	}
}

func TestBudgetService_Create(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	food := f.category("Food", models.EntryTypeExpense)

	tests := []struct {
		name       string
		categoryID int64
		limit      string
		period     models.BudgetPeriod
		wantErr    error
	}{
		{"ok", food, "300", models.BudgetPeriodWeekly, nil},
		{"duplicate category", food, "100", models.BudgetPeriodMonthly, ErrBudgetExists},
		{"unknown category", 9999, "100", models.BudgetPeriodMonthly, ErrInvalidCategory},
		{"zero limit", food, "0", models.BudgetPeriodMonthly, ErrInvalidAmount},
		{"bad period", food, "100", "daily", ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget, err := f.budgets.Create(f.ctx, f.userID, tt.categoryID, dec(tt.limit), tt.period)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && budget.Category == nil {
				t.Error("expected category to be attached")
			}
		})
	}
}

func TestBudgetService_UpdateDelete(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	food := f.category("Food", models.EntryTypeExpense)

	budget, err := f.budgets.Create(f.ctx, f.userID, food, dec("300"), models.BudgetPeriodMonthly)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := f.budgets.Update(f.ctx, budget.ID, f.userID, dec("750"), "")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	assertDecimal(t, "Limit", updated.Limit, "750")
	if updated.Period != models.BudgetPeriodMonthly {
		t.Errorf("Period = %q, want monthly", updated.Period)
	}

	other := f.addUser("bob")
	if err := f.budgets.Delete(f.ctx, budget.ID, other); !errors.Is(err, ErrBudgetNotFound) {
		t.Errorf("Delete() by another user error = %v, want ErrBudgetNotFound", err)
	}
	if err := f.budgets.Delete(f.ctx, budget.ID, f.userID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.budgets.Update(f.ctx, budget.ID, f.userID, dec("1"), ""); !errors.Is(err, ErrBudgetNotFound) {
		t.Errorf("Update() after delete error = %v, want ErrBudgetNotFound", err)
	}
}
