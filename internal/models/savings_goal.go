package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is the cadence of savings goals and recurring templates.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

type SavingsGoal struct {
	ID            uuid.UUID       `db:"id"`
	UserID        uuid.UUID       `db:"user_id"`
	Name          string          `db:"name"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	Deadline      time.Time       `db:"deadline"`
	Frequency     Frequency       `db:"frequency"`
	IsDeleted     bool            `db:"is_deleted"`
	IsMoneyUsed   bool            `db:"is_money_used"`
	CompletedAt   *time.Time      `db:"completed_at"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (g *SavingsGoal) Completed() bool {
	return g.CompletedAt != nil
}

// Remaining is never negative.
func (g *SavingsGoal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// LifetimeSavings only ever grows.
type LifetimeSavings struct {
	ID             uuid.UUID       `db:"id"`
	UserID         uuid.UUID       `db:"user_id"`
	TotalSaved     decimal.Decimal `db:"total_saved"`
	GoalsCompleted int             `db:"goals_completed"`
}
