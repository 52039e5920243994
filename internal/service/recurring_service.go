package service

import (
	"context"
	"fmt"
	"time"

	"fin-guardian/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type NewRecurring struct {
	CategoryID int64
	Amount     decimal.Decimal
	Type       models.EntryType
	Frequency  models.Frequency
	NextRun    time.Time
}

type RecurringChanges struct {
	Amount    *decimal.Decimal
	Frequency *models.Frequency
	NextRun   *time.Time
	Active    *bool
}

// RunResult summarises one scheduler tick.
type RunResult struct {
	Due       int
	Posted    int
	Skipped   int
	Failed    int
	StartedAt time.Time
}

type RecurringService struct {
	tx           Transactor
	recurring    RecurringStore
	transactions TransactionStore
	categories   CategoryStore
	now          func() time.Time
	logger       *zap.Logger
}

func NewRecurringService(
	tx Transactor,
	recurring RecurringStore,
	transactions TransactionStore,
	categories CategoryStore,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		tx:           tx,
		recurring:    recurring,
		transactions: transactions,
		categories:   categories,
		now:          time.Now,
		logger:       logger,
	}
}

// RunDue posts one transaction for every active template whose next run is due and moves the
// template forward by one cadence step. Missed periods are not caught up: a template that
// is still due after the step fires again on the next tick. Each template commits on its own;
// failures are collected and do not stop the tick.
func (s *RecurringService) RunDue(ctx context.Context) (RunResult, error) {
	res := RunResult{StartedAt: s.now()}

	due, err := s.recurring.ListDue(ctx, res.StartedAt)
	if err != nil {
		return res, fmt.Errorf("failed to list due recurring transactions: %w", err)
	}
	res.Due = len(due)

	var errs error
	for _, rt := range due {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}

		posted, err := s.runOne(ctx, rt.ID, res.StartedAt)
		switch {
		case err != nil:
			res.Failed++
			errs = multierr.Append(errs, fmt.Errorf("recurring %s: %w", rt.ID, err))
			s.logger.Error("Recurring transaction failed",
				zap.String("recurring_id", rt.ID.String()),
				zap.Error(err),
			)
		case posted:
			res.Posted++
		default:
			res.Skipped++
		}
	}

	s.logger.Info("Recurring run finished",
		zap.Int("due", res.Due),
		zap.Int("posted", res.Posted),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, errs
}

// runOne re-reads the template under a row lock so a concurrent edit or an overlapping tick
// cannot post it twice for the same due date.
func (s *RecurringService) runOne(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	posted := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rt, err := s.recurring.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !rt.Active || rt.NextRun.After(now) {
			return nil
		}

		name := "transaction"
		if rt.Category != nil {
			name = rt.Category.Name
		}
		tx := &models.Transaction{
			ID:          uuid.New(),
			UserID:      rt.UserID,
			CategoryID:  rt.CategoryID,
			Amount:      rt.Amount,
			Type:        rt.Type,
			Description: "Recurring: " + name,
			CreatedAt:   s.now(),
		}
		if err := s.transactions.Create(ctx, tx); err != nil {
			return err
		}

		rt.NextRun = rt.Frequency.Advance(rt.NextRun)
		if err := s.recurring.Update(ctx, rt); err != nil {
			return err
		}
		posted = true
		return nil
	})
	return posted, err
}

func (s *RecurringService) Create(ctx context.Context, userID uuid.UUID, in NewRecurring) (*models.RecurringTransaction, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	if !in.Frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	category, err := s.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, notFound(err, ErrInvalidCategory)
	}

	now := s.now()
	if in.NextRun.IsZero() {
		in.NextRun = now
	}
	rt := &models.RecurringTransaction{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Type:       in.Type,
		Frequency:  in.Frequency,
		NextRun:    in.NextRun,
		Active:     true,
		CreatedAt:  now,
	}
	if err := s.recurring.Create(ctx, rt); err != nil {
		return nil, err
	}
	rt.Category = category
	return rt, nil
}

func (s *RecurringService) List(ctx context.Context, userID uuid.UUID) ([]*models.RecurringTransaction, error) {
	return s.recurring.ListByUser(ctx, userID)
}

func (s *RecurringService) Update(ctx context.Context, id, userID uuid.UUID, changes RecurringChanges) (*models.RecurringTransaction, error) {
	if changes.Amount != nil && !changes.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if changes.Frequency != nil && !changes.Frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	var rt *models.RecurringTransaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if rt, err = s.recurring.GetByID(ctx, id, userID); err != nil {
			return notFound(err, ErrRecurringNotFound)
		}
		// take the same lock the scheduler takes
		if rt, err = s.recurring.GetForUpdate(ctx, rt.ID); err != nil {
			return notFound(err, ErrRecurringNotFound)
		}

		if changes.Amount != nil {
			rt.Amount = *changes.Amount
		}
		if changes.Frequency != nil {
			rt.Frequency = *changes.Frequency
		}
		if changes.NextRun != nil {
			rt.NextRun = *changes.NextRun
		}
		if changes.Active != nil {
			rt.Active = *changes.Active
		}
		return notFound(s.recurring.Update(ctx, rt), ErrRecurringNotFound)
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *RecurringService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.recurring.GetByID(ctx, id, userID); err != nil {
			return notFound(err, ErrRecurringNotFound)
		}
		if _, err := s.recurring.GetForUpdate(ctx, id); err != nil {
			return notFound(err, ErrRecurringNotFound)
		}
		return notFound(s.recurring.Delete(ctx, id, userID), ErrRecurringNotFound)
	})
}
