package dto

import (
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/shopspring/decimal"
)

type CreateBudgetRequest struct {
	CategoryID int64           `json:"categoryId" validate:"required,gt=0"`
	Limit      decimal.Decimal `json:"limit" swaggertype:"number"`
	Period     string          `json:"period" validate:"required,oneof=monthly weekly"`
}

type UpdateBudgetRequest struct {
	Limit  decimal.Decimal `json:"limit" swaggertype:"number"`
	Period string          `json:"period" validate:"omitempty,oneof=monthly weekly"`
}

type BudgetResponse struct {
	ID        string           `json:"id"`
	Limit     decimal.Decimal  `json:"limit" swaggertype:"number"`
	Period    string           `json:"period"`
	Category  *models.Category `json:"category,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// BudgetAlertResponse carries overspent when alert is true and remaining otherwise.
type BudgetAlertResponse struct {
	Alert     bool             `json:"alert"`
	Overspent *decimal.Decimal `json:"overspent,omitempty" swaggertype:"number"`
	Remaining *decimal.Decimal `json:"remaining,omitempty" swaggertype:"number"`
}

func NewBudgetResponse(b *models.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID.String(),
		Limit:     b.Limit,
		Period:    string(b.Period),
		Category:  b.Category,
		CreatedAt: b.CreatedAt,
	}
}

// NewBudgetAlertResponse returns nil for a nil alert, which encodes as JSON null.
func NewBudgetAlertResponse(a *service.BudgetAlert) *BudgetAlertResponse {
	if a == nil {
		return nil
	}
	resp := &BudgetAlertResponse{Alert: a.Alert}
	if a.Alert {
		overspent := a.Overspent
		resp.Overspent = &overspent
	} else {
		remaining := a.Remaining
		resp.Remaining = &remaining
	}
	return resp
}
