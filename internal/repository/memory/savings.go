package memory

import (
	"context"
	"sort"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SavingsGoalStore struct {
	db *DB
}

func (s *SavingsGoalStore) Create(ctx context.Context, g *models.SavingsGoal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.goals[g.ID]; ok {
		return repository.ErrConflict
	}
	track(ctx, s.db.goals, g.ID)
	s.db.goals[g.ID] = *g
	return nil
}

func (s *SavingsGoalStore) GetByID(_ context.Context, id, userID uuid.UUID) (*models.SavingsGoal, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	g, ok := s.db.goals[id]
	if !ok || g.UserID != userID || g.IsDeleted {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (s *SavingsGoalStore) GetForUpdate(ctx context.Context, id, userID uuid.UUID) (*models.SavingsGoal, error) {
	return s.GetByID(ctx, id, userID)
}

func (s *SavingsGoalStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.SavingsGoal, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.SavingsGoal
	for _, g := range s.db.goals {
		if g.UserID != userID || g.IsDeleted {
			continue
		}
		goal := g
		out = append(out, &goal)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *SavingsGoalStore) SumCurrent(_ context.Context, userID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	sum := decimal.Zero
	for _, g := range s.db.goals {
		if g.UserID != userID || g.IsDeleted || g.ID == exclude {
			continue
		}
		sum = sum.Add(g.CurrentAmount)
	}
	return sum, nil
}

func (s *SavingsGoalStore) Update(ctx context.Context, g *models.SavingsGoal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.goals[g.ID]
	if !ok || stored.UserID != g.UserID {
		return repository.ErrNotFound
	}
	track(ctx, s.db.goals, g.ID)
	s.db.goals[g.ID] = *g
	return nil
}

type LifetimeSavingsStore struct {
	db *DB
}

func (s *LifetimeSavingsStore) AddCompletion(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	ls, ok := s.db.lifetime[userID]
	if !ok {
		ls = models.LifetimeSavings{ID: uuid.New(), UserID: userID}
	}
	ls.TotalSaved = ls.TotalSaved.Add(amount)
	ls.GoalsCompleted++
	track(ctx, s.db.lifetime, userID)
	s.db.lifetime[userID] = ls
	return nil
}

func (s *LifetimeSavingsStore) Get(_ context.Context, userID uuid.UUID) (*models.LifetimeSavings, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	ls, ok := s.db.lifetime[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ls, nil
}
