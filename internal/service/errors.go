package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")

	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDateRange = errors.New("invalid date range")

	ErrTransactionNotFound = errors.New("transaction not found")

	ErrBudgetNotFound = errors.New("budget not found")
	ErrBudgetExists   = errors.New("budget already exists for this category")

	ErrGoalNotFound      = errors.New("savings goal not found")
	ErrGoalNameRequired  = errors.New("goal name is required")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrExceedsAvailable  = errors.New("not enough money available to save")
	ErrExceedsTarget     = errors.New("deposit exceeds the goal target")
	ErrGoalNotCompleted  = errors.New("only completed goals can be marked as used")
	ErrAlreadyUsed       = errors.New("goal is already marked as used")
	ErrSavingsCategory   = errors.New("savings used category is missing")

	ErrRecurringNotFound = errors.New("recurring transaction not found")
)

// AmountLimitError reports the largest amount that would have been accepted.
type AmountLimitError struct {
	Err   error
	Limit decimal.Decimal
}

func (e *AmountLimitError) Error() string {
	return fmt.Sprintf("%s: limit %s", e.Err, e.Limit.StringFixed(2))
}

func (e *AmountLimitError) Unwrap() error {
	return e.Err
}
