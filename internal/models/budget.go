package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
)

func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodMonthly || p == BudgetPeriodWeekly
}

// Budget is a spending limit for one (user, category) pair.
type Budget struct {
	ID         uuid.UUID       `db:"id"`
	UserID     uuid.UUID       `db:"user_id"`
	CategoryID int64           `db:"category_id"`
	Limit      decimal.Decimal `db:"limit_amount"`
	Period     BudgetPeriod    `db:"period"`
	CreatedAt  time.Time       `db:"created_at"`

	Category *Category `db:"-"`
}
