package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringTransaction is a template materialised into a Transaction each time NextRun is due.
type RecurringTransaction struct {
	ID         uuid.UUID       `db:"id"`
	UserID     uuid.UUID       `db:"user_id"`
	CategoryID int64           `db:"category_id"`
	Amount     decimal.Decimal `db:"amount"`
	Type       EntryType       `db:"type"`
	Frequency  Frequency       `db:"frequency"`
	NextRun    time.Time       `db:"next_run"`
	Active     bool            `db:"active"`
	CreatedAt  time.Time       `db:"created_at"`

	Category *Category `db:"-"`
}

// Advance moves t forward by exactly one cadence unit. Monthly steps use calendar months and
// clamp to the last day of the target month, so Jan 31 becomes Feb 28/29.
func (f Frequency) Advance(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return addMonthClamped(t)
	}
	return t
}

func addMonthClamped(t time.Time) time.Time {
	y, m, d := t.Date()
	firstOfNext := time.Date(y, m+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
