package memory

import (
	"context"
	"sort"
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository"

	"github.com/google/uuid"
)

type BudgetStore struct {
	db *DB
}

func (s *BudgetStore) Create(ctx context.Context, b *models.Budget) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.budgets {
		if existing.UserID == b.UserID && existing.CategoryID == b.CategoryID {
			return repository.ErrConflict
		}
	}
	stored := *b
	stored.Category = nil
	track(ctx, s.db.budgets, b.ID)
	s.db.budgets[b.ID] = stored
	return nil
}

func (s *BudgetStore) GetByID(_ context.Context, id, userID uuid.UUID) (*models.Budget, error) {
	return s.find(func(b models.Budget) bool { return b.ID == id && b.UserID == userID })
}

func (s *BudgetStore) GetByCategory(_ context.Context, userID uuid.UUID, categoryID int64) (*models.Budget, error) {
	return s.find(func(b models.Budget) bool { return b.UserID == userID && b.CategoryID == categoryID })
}

func (s *BudgetStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.Budget
	for _, b := range s.db.budgets {
		if b.UserID != userID {
			continue
		}
		b.Category = s.db.categoryRef(b.CategoryID)
		budget := b
		out = append(out, &budget)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *BudgetStore) Update(ctx context.Context, b *models.Budget) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.budgets[b.ID]
	if !ok || stored.UserID != b.UserID {
		return repository.ErrNotFound
	}
	stored.Limit = b.Limit
	stored.Period = b.Period
	track(ctx, s.db.budgets, b.ID)
	s.db.budgets[b.ID] = stored
	return nil
}

func (s *BudgetStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.budgets[id]
	if !ok || b.UserID != userID {
		return repository.ErrNotFound
	}
	track(ctx, s.db.budgets, id)
	delete(s.db.budgets, id)
	return nil
}

func (s *BudgetStore) find(match func(models.Budget) bool) (*models.Budget, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, b := range s.db.budgets {
		if match(b) {
			b.Category = s.db.categoryRef(b.CategoryID)
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

type RecurringStore struct {
	db *DB
}

func (s *RecurringStore) Create(ctx context.Context, rt *models.RecurringTransaction) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.recurring[rt.ID]; ok {
		return repository.ErrConflict
	}
	stored := *rt
	stored.Category = nil
	track(ctx, s.db.recurring, rt.ID)
	s.db.recurring[rt.ID] = stored
	return nil
}

func (s *RecurringStore) GetByID(_ context.Context, id, userID uuid.UUID) (*models.RecurringTransaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rt, ok := s.db.recurring[id]
	if !ok || rt.UserID != userID {
		return nil, repository.ErrNotFound
	}
	rt.Category = s.db.categoryRef(rt.CategoryID)
	return &rt, nil
}

func (s *RecurringStore) GetForUpdate(_ context.Context, id uuid.UUID) (*models.RecurringTransaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rt, ok := s.db.recurring[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rt.Category = s.db.categoryRef(rt.CategoryID)
	return &rt, nil
}

func (s *RecurringStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.RecurringTransaction, error) {
	return s.list(func(rt models.RecurringTransaction) bool { return rt.UserID == userID }), nil
}

func (s *RecurringStore) ListDue(_ context.Context, now time.Time) ([]*models.RecurringTransaction, error) {
	return s.list(func(rt models.RecurringTransaction) bool { return rt.Active && !rt.NextRun.After(now) }), nil
}

func (s *RecurringStore) Update(ctx context.Context, rt *models.RecurringTransaction) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.recurring[rt.ID]
	if !ok || stored.UserID != rt.UserID {
		return repository.ErrNotFound
	}
	updated := *rt
	updated.Category = nil
	updated.CreatedAt = stored.CreatedAt
	track(ctx, s.db.recurring, rt.ID)
	s.db.recurring[rt.ID] = updated
	return nil
}

func (s *RecurringStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rt, ok := s.db.recurring[id]
	if !ok || rt.UserID != userID {
		return repository.ErrNotFound
	}
	track(ctx, s.db.recurring, id)
	delete(s.db.recurring, id)
	return nil
}

// list returns matches ordered by next run, oldest first.
func (s *RecurringStore) list(match func(models.RecurringTransaction) bool) []*models.RecurringTransaction {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.RecurringTransaction
	for _, rt := range s.db.recurring {
		if !match(rt) {
			continue
		}
		rt.Category = s.db.categoryRef(rt.CategoryID)
		template := rt
		out = append(out, &template)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextRun.Before(out[j].NextRun) })
	return out
}
