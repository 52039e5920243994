package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type NewSavingsGoal struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     time.Time
	Frequency    models.Frequency
}

type GoalProgress struct {
	Goal              *models.SavingsGoal
	Remaining         decimal.Decimal
	DaysLeft          int
	RequiredPerPeriod decimal.Decimal
}

type Recommendation struct {
	RecommendedAmount decimal.Decimal
	Frequency         models.Frequency
	PeriodsLeft       int
	DaysLeft          int
	Remaining         decimal.Decimal
	Message           string
}

type SavingsStats struct {
	TotalGoals        int
	CompletedGoals    int
	TotalSaved        decimal.Decimal
	TotalTargetAmount decimal.Decimal
	TotalBalance      decimal.Decimal
	AvailableToSpend  decimal.Decimal
	SavingsPercentage decimal.Decimal
}

// SavingsService is the savings goal ledger. Every mutation runs in one transaction with the
// owner's user row locked, so the money parked across all of a user's goals is checked and
// changed by one writer at a time.
type SavingsService struct {
	tx           Transactor
	users        UserStore
	goals        SavingsGoalStore
	lifetime     LifetimeSavingsStore
	transactions TransactionStore
	categories   CategoryStore
	notifier     Notifier
	now          func() time.Time
	logger       *zap.Logger
}

func NewSavingsService(
	tx Transactor,
	users UserStore,
	goals SavingsGoalStore,
	lifetime LifetimeSavingsStore,
	transactions TransactionStore,
	categories CategoryStore,
	notifier Notifier,
	logger *zap.Logger,
) *SavingsService {
	return &SavingsService{
		tx:           tx,
		users:        users,
		goals:        goals,
		lifetime:     lifetime,
		transactions: transactions,
		categories:   categories,
		notifier:     notifier,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *SavingsService) Create(ctx context.Context, userID uuid.UUID, in NewSavingsGoal) (*models.SavingsGoal, error) {
	name := cleanText(in.Name)
	if name == "" {
		return nil, ErrGoalNameRequired
	}
	if !in.TargetAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !in.Frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	goal := &models.SavingsGoal{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
		Frequency:     in.Frequency,
		CreatedAt:     s.now(),
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *SavingsService) List(ctx context.Context, userID uuid.UUID) ([]*models.SavingsGoal, error) {
	return s.goals.ListByUser(ctx, userID)
}

func (s *SavingsService) Get(ctx context.Context, id, userID uuid.UUID) (*models.SavingsGoal, error) {
	goal, err := s.goals.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, ErrGoalNotFound)
	}
	return goal, nil
}

func (s *SavingsService) Progress(ctx context.Context, id, userID uuid.UUID) (*GoalProgress, error) {
	goal, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	rec := Recommend(goal.Remaining(), DaysLeft(goal.Deadline, s.now()), goal.Frequency)
	return &GoalProgress{
		Goal:              goal,
		Remaining:         rec.Remaining,
		DaysLeft:          rec.DaysLeft,
		RequiredPerPeriod: rec.RecommendedAmount,
	}, nil
}

func (s *SavingsService) Recommendation(ctx context.Context, id, userID uuid.UUID) (*Recommendation, error) {
	goal, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return Recommend(goal.Remaining(), DaysLeft(goal.Deadline, s.now()), goal.Frequency), nil
}

// DaysLeft rounds the time until deadline up to whole days. It is zero or negative once the
// deadline has passed.
func DaysLeft(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// PeriodsLeft is the number of saving periods of the given frequency that fit into daysLeft,
// counting a partial period as a whole one.
func PeriodsLeft(daysLeft int, f models.Frequency) int {
	if daysLeft <= 0 {
		return 0
	}
	switch f {
	case models.FrequencyWeekly:
		return ceilDiv(daysLeft, 7)
	case models.FrequencyBiweekly:
		return ceilDiv(daysLeft, 14)
	case models.FrequencyMonthly:
		return ceilDiv(daysLeft, 30)
	default:
		return daysLeft
	}
}

// Recommend splits remaining over the periods left, rounding each instalment up to a whole
// unit so that following it reaches the target by the deadline.
func Recommend(remaining decimal.Decimal, daysLeft int, f models.Frequency) *Recommendation {
	rec := &Recommendation{
		RecommendedAmount: decimal.Zero,
		Frequency:         f,
		DaysLeft:          daysLeft,
		Remaining:         remaining,
	}

	switch {
	case !remaining.IsPositive():
		rec.Remaining = decimal.Zero
		rec.Message = "goal completed"
		return rec
	case daysLeft <= 0:
		rec.Message = "deadline has passed"
		return rec
	}

	rec.PeriodsLeft = PeriodsLeft(daysLeft, f)
	rec.RecommendedAmount = remaining.Div(decimal.NewFromInt(int64(rec.PeriodsLeft))).Ceil()
	rec.Message = fmt.Sprintf("Save %s every %s to reach your goal", rec.RecommendedAmount.StringFixed(2), frequencyLabel(f))
	return rec
}

func (s *SavingsService) Stats(ctx context.Context, userID uuid.UUID) (*SavingsStats, error) {
	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance, err := s.transactions.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &SavingsStats{
		TotalGoals:   len(goals),
		TotalBalance: balance,
	}
	for _, g := range goals {
		if g.Completed() {
			stats.CompletedGoals++
		}
		stats.TotalSaved = stats.TotalSaved.Add(g.CurrentAmount)
		stats.TotalTargetAmount = stats.TotalTargetAmount.Add(g.TargetAmount)
	}
	stats.AvailableToSpend = balance.Sub(stats.TotalSaved)
	if stats.TotalTargetAmount.IsPositive() {
		stats.SavingsPercentage = stats.TotalSaved.Div(stats.TotalTargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return stats, nil
}

// Deposit moves amount of the user's free balance into the goal. The first deposit that fills
// the goal completes it and credits lifetime savings with the target amount.
func (s *SavingsService) Deposit(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*models.SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var (
		goal      *models.SavingsGoal
		completed bool
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if goal, err = s.lockGoal(ctx, id, userID); err != nil {
			return err
		}

		balance, err := s.transactions.Balance(ctx, userID)
		if err != nil {
			return err
		}
		others, err := s.goals.SumCurrent(ctx, userID, goal.ID)
		if err != nil {
			return err
		}

		available := balance.Sub(others).Sub(goal.CurrentAmount)
		if amount.GreaterThan(available) {
			return &AmountLimitError{Err: ErrExceedsAvailable, Limit: decimal.Max(available, decimal.Zero)}
		}

		next := goal.CurrentAmount.Add(amount)
		if next.GreaterThan(goal.TargetAmount) {
			return &AmountLimitError{Err: ErrExceedsTarget, Limit: goal.Remaining()}
		}
		goal.CurrentAmount = next

		if !next.LessThan(goal.TargetAmount) && !goal.Completed() {
			now := s.now()
			goal.CompletedAt = &now
			if err := s.lifetime.AddCompletion(ctx, userID, goal.TargetAmount); err != nil {
				return fmt.Errorf("failed to record lifetime savings: %w", err)
			}
			completed = true
		}

		return s.goals.Update(ctx, goal)
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.notifier.Enqueue(userID, fmt.Sprintf("Goal %q completed!", goal.Name), models.NotificationGoalCompleted)
		s.logger.Info("Savings goal completed", zap.String("goal_id", goal.ID.String()))
	}
	return goal, nil
}

func (s *SavingsService) Withdraw(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*models.SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var goal *models.SavingsGoal
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if goal, err = s.lockGoal(ctx, id, userID); err != nil {
			return err
		}
		if goal.IsMoneyUsed {
			return ErrAlreadyUsed
		}
		if amount.GreaterThan(goal.CurrentAmount) {
			return ErrInsufficientFunds
		}
		goal.CurrentAmount = goal.CurrentAmount.Sub(amount)
		return s.goals.Update(ctx, goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// MarkUsed books the money of a completed goal as an expense, once.
func (s *SavingsService) MarkUsed(ctx context.Context, id, userID uuid.UUID) (*models.SavingsGoal, *models.Transaction, error) {
	var (
		goal    *models.SavingsGoal
		expense *models.Transaction
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if goal, err = s.lockGoal(ctx, id, userID); err != nil {
			return err
		}
		if !goal.Completed() {
			return ErrGoalNotCompleted
		}
		if goal.IsMoneyUsed {
			return ErrAlreadyUsed
		}
		if !goal.CurrentAmount.IsPositive() {
			return ErrInsufficientFunds
		}

		category, err := s.categories.GetByName(ctx, models.SavingsUsedCategoryName, models.EntryTypeExpense)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSavingsCategory
		}
		if err != nil {
			return err
		}

		expense = &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			CategoryID:  category.ID,
			Amount:      goal.CurrentAmount,
			Type:        models.EntryTypeExpense,
			Description: "Savings used: " + goal.Name,
			CreatedAt:   s.now(),
			Category:    category,
		}
		if err := s.transactions.Create(ctx, expense); err != nil {
			return err
		}

		goal.IsMoneyUsed = true
		return s.goals.Update(ctx, goal)
	})
	if err != nil {
		return nil, nil, err
	}
	return goal, expense, nil
}

// Delete soft-deletes the goal. Its current amount stops counting as parked money.
func (s *SavingsService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := s.DeleteAndRefund(ctx, id, userID)
	return err
}

// DeleteAndRefund is Delete reporting how much money became available again.
func (s *SavingsService) DeleteAndRefund(ctx context.Context, id, userID uuid.UUID) (decimal.Decimal, error) {
	var refunded decimal.Decimal
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		goal, err := s.lockGoal(ctx, id, userID)
		if err != nil {
			return err
		}
		refunded = goal.CurrentAmount
		goal.IsDeleted = true
		return s.goals.Update(ctx, goal)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return refunded, nil
}

// lockGoal must run inside a transaction.
func (s *SavingsService) lockGoal(ctx context.Context, id, userID uuid.UUID) (*models.SavingsGoal, error) {
	if err := s.users.LockForUpdate(ctx, userID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	goal, err := s.goals.GetForUpdate(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, ErrGoalNotFound)
	}
	return goal, nil
}

func frequencyLabel(f models.Frequency) string {
	switch f {
	case models.FrequencyWeekly:
		return "week"
	case models.FrequencyBiweekly:
		return "two weeks"
	case models.FrequencyMonthly:
		return "month"
	default:
		return "day"
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
