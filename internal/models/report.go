package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one row of a grouped-by-category aggregate.
type CategoryTotal struct {
	CategoryID   int64
	CategoryName string
	Icon         string
	Color        string
	Type         EntryType
	Total        decimal.Decimal
	Count        int
}

// DailyTotal is one day of a trend report.
type DailyTotal struct {
	Day     time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}
