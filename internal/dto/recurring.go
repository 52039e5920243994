package dto

import (
	"time"

	"fin-guardian/internal/models"

	"github.com/shopspring/decimal"
)

type CreateRecurringRequest struct {
	CategoryID int64           `json:"categoryId" validate:"required,gt=0"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"number"`
	Type       string          `json:"type" validate:"required,oneof=income expense"`
	Frequency  string          `json:"frequency" validate:"required,oneof=daily weekly biweekly monthly"`
	NextRun    time.Time       `json:"nextRun"`
}

type UpdateRecurringRequest struct {
	Amount    *decimal.Decimal `json:"amount" swaggertype:"number"`
	Frequency *string          `json:"frequency" validate:"omitempty,oneof=daily weekly biweekly monthly"`
	NextRun   *time.Time       `json:"nextRun"`
	Active    *bool            `json:"active"`
}

type RecurringResponse struct {
	ID        string           `json:"id"`
	Amount    decimal.Decimal  `json:"amount" swaggertype:"number"`
	Type      string           `json:"type"`
	Frequency string           `json:"frequency"`
	NextRun   time.Time        `json:"nextRun"`
	Active    bool             `json:"active"`
	Category  *models.Category `json:"category,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

func NewRecurringResponse(rt *models.RecurringTransaction) RecurringResponse {
	return RecurringResponse{
		ID:        rt.ID.String(),
		Amount:    rt.Amount,
		Type:      string(rt.Type),
		Frequency: string(rt.Frequency),
		NextRun:   rt.NextRun,
		Active:    rt.Active,
		Category:  rt.Category,
		CreatedAt: rt.CreatedAt,
	}
}
