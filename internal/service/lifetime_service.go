package service

import (
	"context"
	"errors"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LifetimeService struct {
	lifetime LifetimeSavingsStore
	logger   *zap.Logger
}

func NewLifetimeService(lifetime LifetimeSavingsStore, logger *zap.Logger) *LifetimeService {
	return &LifetimeService{
		lifetime: lifetime,
		logger:   logger,
	}
}

// Get returns zero totals for users who never completed a goal.
func (s *LifetimeService) Get(ctx context.Context, userID uuid.UUID) (*models.LifetimeSavings, error) {
	ls, err := s.lifetime.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.LifetimeSavings{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return ls, nil
}
