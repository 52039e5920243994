package service

import (
	"errors"
	"testing"
	"time"

	"fin-guardian/internal/models"

	"github.com/google/uuid"
)

func TestTransactionService_Create(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	food := f.category("Food", models.EntryTypeExpense)
	salary := f.category("Salary", models.EntryTypeIncome)

	if _, err := f.budgets.Create(f.ctx, f.userID, food, dec("500"), models.BudgetPeriodMonthly); err != nil {
		t.Fatalf("budget: %v", err)
	}
	// the budget exists from "now"; spending must happen after it
	f.transactions.now = func() time.Time { return now.Add(time.Minute) }
	f.budgets.now = func() time.Time { return now.Add(time.Hour) }

	tests := []struct {
		name        string
		in          NewTransaction
		wantErr     error
		wantAlert   bool
		wantNoCheck bool
	}{
		{"income skips the budget", NewTransaction{CategoryID: salary, Amount: dec("2000"), Type: models.EntryTypeIncome}, nil, false, true},
		{"expense within budget", NewTransaction{CategoryID: food, Amount: dec("450"), Type: models.EntryTypeExpense}, nil, false, false},
		{"expense over budget", NewTransaction{CategoryID: food, Amount: dec("100"), Type: models.EntryTypeExpense}, nil, true, false},
		{"zero amount", NewTransaction{CategoryID: food, Amount: dec("0"), Type: models.EntryTypeExpense}, ErrInvalidAmount, false, true},
		{"bad type", NewTransaction{CategoryID: food, Amount: dec("1"), Type: "transfer"}, ErrInvalidType, false, true},
		{"unknown category", NewTransaction{CategoryID: 9999, Amount: dec("1"), Type: models.EntryTypeExpense}, ErrInvalidCategory, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, alert, err := f.transactions.Create(f.ctx, f.userID, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if tx.Category == nil {
				t.Error("expected category on created transaction")
			}
			if tt.wantNoCheck {
				if alert != nil {
					t.Errorf("expected no budget check, got %+v", alert)
				}
				return
			}
			if alert == nil || alert.Alert != tt.wantAlert {
				t.Fatalf("alert = %+v, want Alert=%v", alert, tt.wantAlert)
			}
			if tt.wantAlert {
				assertDecimal(t, "Overspent", alert.Overspent, "50")
			}
		})
	}

	notes := f.notifications.List(f.userID)
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes))
	}
	if notes[0].Type != models.NotificationBudgetOverspent {
		t.Errorf("notification type = %q", notes[0].Type)
	}
	if want := "You went 50.00 over the Food budget"; notes[0].Message != want {
		t.Errorf("notification message = %q, want %q", notes[0].Message, want)
	}
}

func TestTransactionService_CreateUnknownUser(t *testing.T) {
	f := newFixture(t, time.Now())
	food := f.category("Food", models.EntryTypeExpense)

	_, _, err := f.transactions.Create(f.ctx, uuid.New(), NewTransaction{CategoryID: food, Amount: dec("10"), Type: models.EntryTypeExpense})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Create() error = %v, want ErrUserNotFound", err)
	}
}

func TestTransactionService_List(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	food := f.category("Food", models.EntryTypeExpense)
	for i := 0; i < 5; i++ {
		f.seedTx(f.userID, food, models.EntryTypeExpense, "10", now.Add(-time.Duration(i)*time.Hour))
	}
	f.seedTx(f.addUser("bob"), food, models.EntryTypeExpense, "10", now)

	tests := []struct {
		name         string
		page, limit  int
		wantLen      int
		wantPage     int
		wantLastPage int
	}{
		{"first page", 1, 2, 2, 1, 3},
		{"last page", 3, 2, 1, 3, 3},
		{"past the end", 4, 2, 0, 4, 3},
		{"defaults", 0, 0, 5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.transactions.List(f.ctx, f.userID, tt.page, tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(page.Data) != tt.wantLen || page.Page != tt.wantPage || page.LastPage != tt.wantLastPage || page.Total != 5 {
				t.Errorf("got len=%d page=%d lastPage=%d total=%d", len(page.Data), page.Page, page.LastPage, page.Total)
			}
		})
	}

	page, _ := f.transactions.List(f.ctx, f.userID, 1, 5)
	for i := 1; i < len(page.Data); i++ {
		if page.Data[i].CreatedAt.After(page.Data[i-1].CreatedAt) {
			t.Fatal("expected newest first")
		}
	}
}

func TestTransactionService_UpdateDelete(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	food := f.category("Food", models.EntryTypeExpense)
	transport := f.category("Transport", models.EntryTypeExpense)

	tx, _, err := f.transactions.Create(f.ctx, f.userID, NewTransaction{CategoryID: food, Amount: dec("12.50"), Type: models.EntryTypeExpense, Description: "lunch"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	desc := "bus"
	updated, err := f.transactions.Update(f.ctx, tx.ID, f.userID, TransactionChanges{Description: &desc, CategoryID: &transport})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Description != "bus" || updated.CategoryID != transport || updated.Category.Name != "Transport" {
		t.Errorf("unexpected update result: %+v", updated)
	}
	assertDecimal(t, "Amount", updated.Amount, "12.50")

	missing := int64(9999)
	if _, err := f.transactions.Update(f.ctx, tx.ID, f.userID, TransactionChanges{CategoryID: &missing}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Update() unknown category error = %v", err)
	}

	if _, err := f.transactions.Get(f.ctx, tx.ID, f.addUser("bob")); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Get() by other user error = %v", err)
	}

	if err := f.transactions.Delete(f.ctx, tx.ID, f.userID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := f.transactions.Delete(f.ctx, tx.ID, f.userID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}
