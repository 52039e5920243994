package service

import (
	"errors"
	"testing"
	"time"

	"fin-guardian/internal/models"
)

func TestCategoryService_ListByType(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	wantIncome := 0
	for _, c := range models.DefaultCategories {
		if c.Type == models.EntryTypeIncome {
			wantIncome++
		}
	}

	income, err := f.categories.ListByType(f.ctx, models.EntryTypeIncome)
	if err != nil {
		t.Fatalf("ListByType() error = %v", err)
	}
	if len(income) != wantIncome {
		t.Errorf("income categories = %d, want %d", len(income), wantIncome)
	}
	for _, c := range income {
		if c.Type != models.EntryTypeIncome {
			t.Errorf("category %q has type %q", c.Name, c.Type)
		}
	}

	if _, err := f.categories.ListByType(f.ctx, "transfer"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("ListByType() error = %v, want ErrInvalidType", err)
	}
}

func TestCategoryService_EnsureDefaultsIsIdempotent(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		if err := f.categories.EnsureDefaults(f.ctx); err != nil {
			t.Fatalf("EnsureDefaults() run %d error = %v", i, err)
		}
	}

	all, err := f.categories.List(f.ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != len(models.DefaultCategories) {
		t.Errorf("List() = %d categories, want %d", len(all), len(models.DefaultCategories))
	}
}

func TestCategoryService_Stats(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	empty, err := f.categories.Stats(f.ctx, f.userID)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("Stats() on empty ledger = %v, %v", empty, err)
	}

	food, _ := seedMarch(f)
	stats, err := f.categories.Stats(f.ctx, f.userID)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	// salary 3000, food 600, transport 200; February is out of the window
	if len(stats) != 3 {
		t.Fatalf("Stats() = %d rows, want 3", len(stats))
	}
	for _, ct := range stats {
		if ct.CategoryID == food {
			assertDecimal(t, "Food", ct.Total, "600")
		}
	}
}
