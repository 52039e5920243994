package service

import (
	"errors"
	"testing"
	"time"

	"fin-guardian/internal/models"
)

func TestRecurringService_RunDue(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	home := f.category("Home", models.EntryTypeExpense)
	salary := f.category("Salary", models.EntryTypeIncome)

	rent, err := f.recurring.Create(f.ctx, f.userID, NewRecurring{
		CategoryID: home,
		Amount:     dec("800"),
		Type:       models.EntryTypeExpense,
		Frequency:  models.FrequencyMonthly,
		NextRun:    time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	paused, err := f.recurring.Create(f.ctx, f.userID, NewRecurring{
		CategoryID: salary,
		Amount:     dec("2000"),
		Type:       models.EntryTypeIncome,
		Frequency:  models.FrequencyWeekly,
		NextRun:    now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inactive := false
	if _, err := f.recurring.Update(f.ctx, paused.ID, f.userID, RecurringChanges{Active: &inactive}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := f.recurring.Create(f.ctx, f.userID, NewRecurring{
		CategoryID: salary,
		Amount:     dec("100"),
		Type:       models.EntryTypeIncome,
		Frequency:  models.FrequencyDaily,
		NextRun:    now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// one step per tick, the clamped date stays on the 29th
	ticks := []struct {
		wantPosted  int
		wantNextRun time.Time
	}{
		{1, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)},
		{1, time.Date(2024, 3, 29, 9, 0, 0, 0, time.UTC)},
		{0, time.Date(2024, 3, 29, 9, 0, 0, 0, time.UTC)},
	}
	for i, tick := range ticks {
		res, err := f.recurring.RunDue(f.ctx)
		if err != nil {
			t.Fatalf("tick %d: RunDue() error = %v", i, err)
		}
		if res.Posted != tick.wantPosted || res.Failed != 0 {
			t.Errorf("tick %d: result = %+v, want %d posted", i, res, tick.wantPosted)
		}
		got, err := f.db.Recurring().GetByID(f.ctx, rent.ID, f.userID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if !got.NextRun.Equal(tick.wantNextRun) {
			t.Errorf("tick %d: NextRun = %v, want %v", i, got.NextRun, tick.wantNextRun)
		}
	}

	page, err := f.transactions.List(f.ctx, f.userID, 1, 50)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("posted transactions = %d, want 2", page.Total)
	}
	for _, tx := range page.Data {
		if tx.CategoryID != home || tx.Type != models.EntryTypeExpense || tx.Description != "Recurring: Home" {
			t.Errorf("unexpected posted transaction %+v", tx)
		}
		if !tx.CreatedAt.Equal(now) {
			t.Errorf("CreatedAt = %v, want tick time", tx.CreatedAt)
		}
		assertDecimal(t, "Amount", tx.Amount, "800")
	}
}

func TestRecurringService_Create(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	food := f.category("Food", models.EntryTypeExpense)

	tests := []struct {
		name    string
		in      NewRecurring
		wantErr error
	}{
		{"defaults next run to now", NewRecurring{CategoryID: food, Amount: dec("5"), Type: models.EntryTypeExpense, Frequency: models.FrequencyDaily}, nil},
		{"zero amount", NewRecurring{CategoryID: food, Amount: dec("0"), Type: models.EntryTypeExpense, Frequency: models.FrequencyDaily}, ErrInvalidAmount},
		{"bad type", NewRecurring{CategoryID: food, Amount: dec("5"), Type: "gift", Frequency: models.FrequencyDaily}, ErrInvalidType},
		{"bad frequency", NewRecurring{CategoryID: food, Amount: dec("5"), Type: models.EntryTypeExpense, Frequency: "hourly"}, ErrInvalidFrequency},
		{"unknown category", NewRecurring{CategoryID: 9999, Amount: dec("5"), Type: models.EntryTypeExpense, Frequency: models.FrequencyDaily}, ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := f.recurring.Create(f.ctx, f.userID, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !rt.Active || !rt.NextRun.Equal(now) || rt.Category == nil {
				t.Errorf("unexpected template %+v", rt)
			}
		})
	}
}

func TestRecurringService_UpdateDelete(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	food := f.category("Food", models.EntryTypeExpense)

	rt, err := f.recurring.Create(f.ctx, f.userID, NewRecurring{CategoryID: food, Amount: dec("5"), Type: models.EntryTypeExpense, Frequency: models.FrequencyDaily})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	amount := dec("7.25")
	weekly := models.FrequencyWeekly
	updated, err := f.recurring.Update(f.ctx, rt.ID, f.userID, RecurringChanges{Amount: &amount, Frequency: &weekly})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	assertDecimal(t, "Amount", updated.Amount, "7.25")
	if updated.Frequency != models.FrequencyWeekly {
		t.Errorf("Frequency = %q", updated.Frequency)
	}

	zero := dec("0")
	if _, err := f.recurring.Update(f.ctx, rt.ID, f.userID, RecurringChanges{Amount: &zero}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Update() zero amount error = %v", err)
	}

	bob := f.addUser("bob")
	if _, err := f.recurring.Update(f.ctx, rt.ID, bob, RecurringChanges{Amount: &amount}); !errors.Is(err, ErrRecurringNotFound) {
		t.Errorf("Update() by other user error = %v", err)
	}
	if err := f.recurring.Delete(f.ctx, rt.ID, bob); !errors.Is(err, ErrRecurringNotFound) {
		t.Errorf("Delete() by other user error = %v", err)
	}
	if err := f.recurring.Delete(f.ctx, rt.ID, f.userID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	list, _ := f.recurring.List(f.ctx, f.userID)
	if len(list) != 0 {
		t.Errorf("List() after delete = %d templates", len(list))
	}
}
