package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type budgetChecker interface {
	CheckBudgetAlert(ctx context.Context, userID uuid.UUID, categoryID int64, candidate decimal.Decimal, period models.BudgetPeriod) (*BudgetAlert, error)
}

type NewTransaction struct {
	CategoryID  int64
	Amount      decimal.Decimal
	Type        models.EntryType
	Description string
}

// TransactionChanges lists the fields a transaction may change after creation.
type TransactionChanges struct {
	Description *string
	CategoryID  *int64
}

type TransactionPage struct {
	Data     []*models.Transaction
	Total    int
	Page     int
	LastPage int
}

type TransactionService struct {
	tx           Transactor
	users        UserStore
	categories   CategoryStore
	transactions TransactionStore
	budgets      budgetChecker
	notifier     Notifier
	now          func() time.Time
	logger       *zap.Logger
}

func NewTransactionService(
	tx Transactor,
	users UserStore,
	categories CategoryStore,
	transactions TransactionStore,
	budgets budgetChecker,
	notifier Notifier,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		tx:           tx,
		users:        users,
		categories:   categories,
		transactions: transactions,
		budgets:      budgets,
		notifier:     notifier,
		now:          time.Now,
		logger:       logger,
	}
}

// Create posts a transaction. Expenses are checked against the category budget before they
// are stored, with the new amount as the candidate; an overspend still posts and is
// reported through the returned alert and a notification.
func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, in NewTransaction) (*models.Transaction, *BudgetAlert, error) {
	if !in.Amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}
	if !in.Type.Valid() {
		return nil, nil, ErrInvalidType
	}

	var (
		created *models.Transaction
		alert   *BudgetAlert
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.LockForUpdate(ctx, userID); err != nil {
			return notFound(err, ErrUserNotFound)
		}

		category, err := s.categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return notFound(err, ErrInvalidCategory)
		}

		if in.Type == models.EntryTypeExpense {
			alert, err = s.budgets.CheckBudgetAlert(ctx, userID, in.CategoryID, in.Amount, "")
			if err != nil {
				return fmt.Errorf("failed to check budget: %w", err)
			}
		}

		created = &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			CategoryID:  in.CategoryID,
			Amount:      in.Amount,
			Type:        in.Type,
			Description: cleanText(in.Description),
			CreatedAt:   s.now(),
			Category:    category,
		}
		return s.transactions.Create(ctx, created)
	})
	if err != nil {
		return nil, nil, err
	}

	if alert != nil && alert.Alert {
		s.notifier.Enqueue(userID,
			fmt.Sprintf("You went %s over the %s budget", alert.Overspent.StringFixed(2), created.Category.Name),
			models.NotificationBudgetOverspent,
		)
	}

	s.logger.Info("Transaction created",
		zap.String("transaction_id", created.ID.String()),
		zap.String("type", string(created.Type)),
	)
	return created, alert, nil
}

// List pages through the user's transactions, newest first. Pages start at 1.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, page, limit int) (*TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	data, total, err := s.transactions.List(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []*models.Transaction{}
	}

	return &TransactionPage{
		Data:     data,
		Total:    total,
		Page:     page,
		LastPage: (total + limit - 1) / limit,
	}, nil
}

func (s *TransactionService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	return tx, nil
}

func (s *TransactionService) Update(ctx context.Context, id, userID uuid.UUID, changes TransactionChanges) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}

	if changes.Description != nil {
		tx.Description = cleanText(*changes.Description)
	}
	if changes.CategoryID != nil && *changes.CategoryID != tx.CategoryID {
		category, err := s.categories.GetByID(ctx, *changes.CategoryID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCategory
		}
		if err != nil {
			return nil, err
		}
		tx.CategoryID = category.ID
		tx.Category = category
	}

	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return notFound(s.transactions.Delete(ctx, id, userID), ErrTransactionNotFound)
}
