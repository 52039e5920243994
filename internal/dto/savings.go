package dto

import (
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/shopspring/decimal"
)

type CreateSavingsGoalRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	TargetAmount decimal.Decimal `json:"target_amount" swaggertype:"number"`
	Deadline     time.Time       `json:"deadline" validate:"required"`
	Frequency    string          `json:"frequency" validate:"required,oneof=daily weekly biweekly monthly"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"number"`
}

type SavingsGoalResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount" swaggertype:"number"`
	CurrentAmount decimal.Decimal `json:"current_amount" swaggertype:"number"`
	Deadline      time.Time       `json:"deadline"`
	Frequency     string          `json:"frequency"`
	IsDeleted     bool            `json:"isDeleted"`
	IsMoneyUsed   bool            `json:"isMoneyUsed"`
	CompletedAt   *time.Time      `json:"completedAt"`
	CreatedAt     time.Time       `json:"created_at"`
}

type GoalProgressResponse struct {
	SavingsGoalResponse
	Remaining         decimal.Decimal `json:"remaining" swaggertype:"number"`
	DaysLeft          int             `json:"daysLeft"`
	RequiredPerPeriod decimal.Decimal `json:"requiredPerPeriod" swaggertype:"number"`
}

type RecommendationResponse struct {
	RecommendedAmount decimal.Decimal `json:"recommendedAmount" swaggertype:"number"`
	Frequency         string          `json:"frequency"`
	PeriodsLeft       int             `json:"periodsLeft"`
	DaysLeft          int             `json:"daysLeft"`
	Remaining         decimal.Decimal `json:"remaining" swaggertype:"number"`
	Message           string          `json:"message"`
}

type SavingsStatsResponse struct {
	TotalGoals        int             `json:"totalGoals"`
	CompletedGoals    int             `json:"completedGoals"`
	TotalSaved        decimal.Decimal `json:"totalSaved" swaggertype:"number"`
	TotalTargetAmount decimal.Decimal `json:"totalTargetAmount" swaggertype:"number"`
	TotalBalance      decimal.Decimal `json:"totalBalance" swaggertype:"number"`
	AvailableToSpend  decimal.Decimal `json:"availableToSpend" swaggertype:"number"`
	SavingsPercentage decimal.Decimal `json:"savingsPercentage" swaggertype:"number"`
}

type MarkUsedResponse struct {
	Goal        SavingsGoalResponse `json:"goal"`
	Transaction TransactionResponse `json:"transaction"`
	Message     string              `json:"message"`
}

type RefundResponse struct {
	Message        string          `json:"message"`
	RefundedAmount decimal.Decimal `json:"refundedAmount" swaggertype:"number"`
}

type LifetimeSavingsResponse struct {
	TotalSaved     decimal.Decimal `json:"totalSaved" swaggertype:"number"`
	GoalsCompleted int             `json:"goalsCompleted"`
}

func NewSavingsGoalResponse(g *models.SavingsGoal) SavingsGoalResponse {
	return SavingsGoalResponse{
		ID:            g.ID.String(),
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline,
		Frequency:     string(g.Frequency),
		IsDeleted:     g.IsDeleted,
		IsMoneyUsed:   g.IsMoneyUsed,
		CompletedAt:   g.CompletedAt,
		CreatedAt:     g.CreatedAt,
	}
}

func NewSavingsGoalList(goals []*models.SavingsGoal) []SavingsGoalResponse {
	out := make([]SavingsGoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, NewSavingsGoalResponse(g))
	}
	return out
}

func NewGoalProgressResponse(p *service.GoalProgress) GoalProgressResponse {
	return GoalProgressResponse{
		SavingsGoalResponse: NewSavingsGoalResponse(p.Goal),
		Remaining:           p.Remaining,
		DaysLeft:            p.DaysLeft,
		RequiredPerPeriod:   p.RequiredPerPeriod,
	}
}

func NewRecommendationResponse(r *service.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		RecommendedAmount: r.RecommendedAmount,
		Frequency:         string(r.Frequency),
		PeriodsLeft:       r.PeriodsLeft,
		DaysLeft:          r.DaysLeft,
		Remaining:         r.Remaining,
		Message:           r.Message,
	}
}

func NewSavingsStatsResponse(s *service.SavingsStats) SavingsStatsResponse {
	return SavingsStatsResponse{
		TotalGoals:        s.TotalGoals,
		CompletedGoals:    s.CompletedGoals,
		TotalSaved:        s.TotalSaved,
		TotalTargetAmount: s.TotalTargetAmount,
		TotalBalance:      s.TotalBalance,
		AvailableToSpend:  s.AvailableToSpend,
		SavingsPercentage: s.SavingsPercentage,
	}
}
