package dto

import (
	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/shopspring/decimal"
)

type CategoryTotalResponse struct {
	CategoryID int64           `json:"categoryId"`
	Category   string          `json:"category"`
	Icon       string          `json:"icon,omitempty"`
	Color      string          `json:"color,omitempty"`
	Type       string          `json:"type"`
	Total      decimal.Decimal `json:"total" swaggertype:"number"`
	Count      int             `json:"count"`
}

type DailyTotalResponse struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income" swaggertype:"number"`
	Expense decimal.Decimal `json:"expense" swaggertype:"number"`
}

type SummaryBody struct {
	Income     decimal.Decimal         `json:"income" swaggertype:"number"`
	Expense    decimal.Decimal         `json:"expense" swaggertype:"number"`
	Balance    decimal.Decimal         `json:"balance" swaggertype:"number"`
	ByCategory []CategoryTotalResponse `json:"byCategory"`
}

type SummaryResponse struct {
	Period  string      `json:"period"`
	Summary SummaryBody `json:"summary"`
}

type AnalysisResponse struct {
	Start             string                 `json:"start"`
	End               string                 `json:"end"`
	Income            decimal.Decimal        `json:"income" swaggertype:"number"`
	Expense           decimal.Decimal        `json:"expense" swaggertype:"number"`
	Balance           decimal.Decimal        `json:"balance" swaggertype:"number"`
	TransactionCount  int                    `json:"transactionCount"`
	TopCategory       *CategoryTotalResponse `json:"topCategory,omitempty"`
	TopCategoryShare  decimal.Decimal        `json:"topCategoryShare" swaggertype:"number"`
	ExpenseCategories int                    `json:"expenseCategories"`
	Findings          []string               `json:"findings"`
	Advice            string                 `json:"advice,omitempty"`
}

func NewCategoryTotalResponse(ct models.CategoryTotal) CategoryTotalResponse {
	return CategoryTotalResponse{
		CategoryID: ct.CategoryID,
		Category:   ct.CategoryName,
		Icon:       ct.Icon,
		Color:      ct.Color,
		Type:       string(ct.Type),
		Total:      ct.Total,
		Count:      ct.Count,
	}
}

func NewCategoryTotals(totals []models.CategoryTotal) []CategoryTotalResponse {
	out := make([]CategoryTotalResponse, 0, len(totals))
	for _, ct := range totals {
		out = append(out, NewCategoryTotalResponse(ct))
	}
	return out
}

func NewDailyTotals(days []models.DailyTotal) []DailyTotalResponse {
	out := make([]DailyTotalResponse, 0, len(days))
	for _, d := range days {
		out = append(out, DailyTotalResponse{
			Date:    d.Day.Format("2006-01-02"),
			Income:  d.Income,
			Expense: d.Expense,
		})
	}
	return out
}

func NewSummaryResponse(s *service.Summary) SummaryResponse {
	return SummaryResponse{
		Period: s.Period,
		Summary: SummaryBody{
			Income:     s.Income,
			Expense:    s.Expense,
			Balance:    s.Balance,
			ByCategory: NewCategoryTotals(s.ByCategory),
		},
	}
}

func NewAnalysisResponse(a *service.SpendingAnalysis) AnalysisResponse {
	resp := AnalysisResponse{
		Start:             a.From.Format("2006-01-02"),
		End:               a.To.Format("2006-01-02"),
		Income:            a.Income,
		Expense:           a.Expense,
		Balance:           a.Balance,
		TransactionCount:  a.TransactionCount,
		TopCategoryShare:  a.TopCategoryShare,
		ExpenseCategories: a.ExpenseCategories,
		Findings:          a.Findings,
		Advice:            a.Advice,
	}
	if a.TopCategory != nil {
		top := NewCategoryTotalResponse(*a.TopCategory)
		resp.TopCategory = &top
	}
	if resp.Findings == nil {
		resp.Findings = []string{}
	}
	return resp
}
