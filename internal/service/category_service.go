package service

import (
	"context"
	"fmt"
	"time"

	"fin-guardian/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryService struct {
	categories   CategoryStore
	transactions TransactionStore
	now          func() time.Time
	logger       *zap.Logger
}

func NewCategoryService(categories CategoryStore, transactions TransactionStore, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categories:   categories,
		transactions: transactions,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categories.List(ctx, nil)
}

func (s *CategoryService) ListByType(ctx context.Context, typ models.EntryType) ([]*models.Category, error) {
	if !typ.Valid() {
		return nil, ErrInvalidType
	}
	return s.categories.List(ctx, &typ)
}

// Stats groups the user's transactions of the current calendar month by category.
func (s *CategoryService) Stats(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totals, err := s.transactions.TotalsByCategory(ctx, models.TransactionFilter{UserID: userID, From: &from, To: &now})
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []models.CategoryTotal{}
	}
	return totals, nil
}

// EnsureDefaults installs models.DefaultCategories. Existing rows are kept, so it is safe to
// run on every start.
func (s *CategoryService) EnsureDefaults(ctx context.Context) error {
	for _, c := range models.DefaultCategories {
		cat := c
		if err := s.categories.Create(ctx, &cat); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
		}
	}
	s.logger.Info("Default categories ensured", zap.Int("count", len(models.DefaultCategories)))
	return nil
}
