package dto

import (
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/shopspring/decimal"
)

func init() {
	// money travels as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	Type        string          `json:"type" validate:"required,oneof=income expense"`
	CategoryID  int64           `json:"categoryId" validate:"required,gt=0"`
	Description string          `json:"description" validate:"max=500"`
}

// UpdateTransactionRequest only carries the fields that may change after posting.
type UpdateTransactionRequest struct {
	Description *string `json:"description" validate:"omitempty,max=500"`
	CategoryID  *int64  `json:"categoryId" validate:"omitempty,gt=0"`
}

type TransactionResponse struct {
	ID          string           `json:"id"`
	Amount      decimal.Decimal  `json:"amount" swaggertype:"number"`
	Type        string           `json:"type"`
	Description string           `json:"description"`
	Category    *models.Category `json:"category,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type CreateTransactionResponse struct {
	Transaction TransactionResponse  `json:"tx"`
	Alert       *BudgetAlertResponse `json:"alert"`
}

type TransactionPageResponse struct {
	Data     []TransactionResponse `json:"data"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	LastPage int                   `json:"lastPage"`
}

func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID.String(),
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Description: tx.Description,
		Category:    tx.Category,
		CreatedAt:   tx.CreatedAt,
	}
}

func NewTransactionPageResponse(p *service.TransactionPage) TransactionPageResponse {
	data := make([]TransactionResponse, 0, len(p.Data))
	for _, tx := range p.Data {
		data = append(data, NewTransactionResponse(tx))
	}
	return TransactionPageResponse{
		Data:     data,
		Total:    p.Total,
		Page:     p.Page,
		LastPage: p.LastPage,
	}
}
