package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the unit of the ledger. Amount is always positive, Type decides the sign.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	CategoryID  int64           `db:"category_id"`
	Amount      decimal.Decimal `db:"amount"`
	Type        EntryType       `db:"type"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`

	// Category is populated by reads that join categories.
	Category *Category `db:"-"`
}

// Signed returns the effect of the transaction on the balance.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == EntryTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionFilter narrows aggregate and list reads. Nil fields are ignored.
type TransactionFilter struct {
	UserID     uuid.UUID
	CategoryID *int64
	Type       *EntryType
	From       *time.Time
	To         *time.Time
}
