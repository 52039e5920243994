package service

import (
	"context"
	"errors"
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BudgetAlert is the outcome of a budget check. Overspent is set when Alert is true,
// Remaining otherwise.
type BudgetAlert struct {
	Alert       bool
	Overspent   decimal.Decimal
	Remaining   decimal.Decimal
	Limit       decimal.Decimal
	Spent       decimal.Decimal
	Period      models.BudgetPeriod
	WindowStart time.Time
}

type BudgetService struct {
	budgets      BudgetStore
	categories   CategoryStore
	transactions TransactionStore
	now          func() time.Time
	logger       *zap.Logger
}

func NewBudgetService(budgets BudgetStore, categories CategoryStore, transactions TransactionStore, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		budgets:      budgets,
		categories:   categories,
		transactions: transactions,
		now:          time.Now,
		logger:       logger,
	}
}

// CheckBudgetAlert reports whether spending candidate on the category would push the
// user's expenses in the current window over the budget. A nil alert means the user has no
// budget for the category. An empty period uses the budget's own period.
func (s *BudgetService) CheckBudgetAlert(
	ctx context.Context,
	userID uuid.UUID,
	categoryID int64,
	candidate decimal.Decimal,
	period models.BudgetPeriod,
) (*BudgetAlert, error) {
	if candidate.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if period != "" && !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	budget, err := s.budgets.GetByCategory(ctx, userID, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if period == "" {
		period = budget.Period
	}
	start := WindowStart(period, s.now(), budget.CreatedAt)

	expense := models.EntryTypeExpense
	spent, err := s.transactions.Sum(ctx, models.TransactionFilter{
		UserID:     userID,
		CategoryID: &categoryID,
		Type:       &expense,
		From:       &start,
	})
	if err != nil {
		return nil, err
	}

	total := spent.Add(candidate)
	alert := &BudgetAlert{
		Limit:       budget.Limit,
		Spent:       total,
		Period:      period,
		WindowStart: start,
	}
	if total.GreaterThan(budget.Limit) {
		alert.Alert = true
		alert.Overspent = total.Sub(budget.Limit)
	} else {
		alert.Remaining = budget.Limit.Sub(total)
	}
	return alert, nil
}

// WindowStart anchors the budget window so expenses older than the budget never count.
// Monthly windows start at the first instant of now's calendar month, weekly ones seven days
// before now.
func WindowStart(period models.BudgetPeriod, now, createdAt time.Time) time.Time {
	var start time.Time
	switch period {
	case models.BudgetPeriodWeekly:
		start = now.AddDate(0, 0, -7)
	default:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if createdAt.After(start) {
		return createdAt
	}
	return start
}

// Status is CheckBudgetAlert with no candidate, failing when the category has no budget.
func (s *BudgetService) Status(ctx context.Context, userID uuid.UUID, categoryID int64) (*BudgetAlert, error) {
	alert, err := s.CheckBudgetAlert(ctx, userID, categoryID, decimal.Zero, "")
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, ErrBudgetNotFound
	}
	return alert, nil
}

func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, categoryID int64, limit decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error) {
	if !limit.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	category, err := s.categories.GetByID(ctx, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCategory
	}
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		Limit:      limit,
		Period:     period,
		CreatedAt:  s.now(),
	}
	if err := s.budgets.Create(ctx, budget); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrBudgetExists
		}
		return nil, err
	}
	budget.Category = category

	s.logger.Info("Budget created",
		zap.String("budget_id", budget.ID.String()),
		zap.Int64("category_id", categoryID),
	)
	return budget, nil
}

func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	return s.budgets.ListByUser(ctx, userID)
}

// Update changes the limit and, when period is non-empty, the period.
func (s *BudgetService) Update(ctx context.Context, id, userID uuid.UUID, limit decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error) {
	if !limit.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if period != "" && !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	budget, err := s.budgets.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, ErrBudgetNotFound)
	}

	budget.Limit = limit
	if period != "" {
		budget.Period = period
	}
	if err := s.budgets.Update(ctx, budget); err != nil {
		return nil, notFound(err, ErrBudgetNotFound)
	}
	return budget, nil
}

func (s *BudgetService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return notFound(s.budgets.Delete(ctx, id, userID), ErrBudgetNotFound)
}

// notFound replaces the store's not-found error with the domain one.
func notFound(err, domainErr error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domainErr
	}
	return err
}
