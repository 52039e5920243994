package repository

import (
	"context"

	"fin-guardian/internal/models"
	"fin-guardian/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LifetimeSavingsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewLifetimeSavingsRepository(db *pgxpool.Pool, logger *zap.Logger) *LifetimeSavingsRepository {
	return &LifetimeSavingsRepository{
		db:     db,
		logger: logger,
	}
}

// AddCompletion records one completed goal worth amount, creating the user's row on first use.
func (r *LifetimeSavingsRepository) AddCompletion(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	query := squirrel.Insert("lifetime_savings").
		Columns("id", "user_id", "total_saved", "goals_completed").
		Values(uuid.New(), userID, amount, 1).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			total_saved = lifetime_savings.total_saved + EXCLUDED.total_saved,
			goals_completed = lifetime_savings.goals_completed + 1`).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = postgres.Conn(ctx, r.db).Exec(ctx, sql, args...)
	return err
}

func (r *LifetimeSavingsRepository) Get(ctx context.Context, userID uuid.UUID) (*models.LifetimeSavings, error) {
	query := squirrel.Select("id", "user_id", "total_saved", "goals_completed").
		From("lifetime_savings").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var ls models.LifetimeSavings
	err = postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&ls.ID, &ls.UserID, &ls.TotalSaved, &ls.GoalsCompleted)
	if err != nil {
		return nil, translate(err)
	}
	return &ls, nil
}
