package repository

import (
	"context"

	"fin-guardian/internal/models"
	"fin-guardian/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var goalColumns = []string{
	"id", "user_id", "name", "target_amount", "current_amount", "deadline", "frequency",
	"is_deleted", "is_money_used", "completed_at", "created_at",
}

type SavingsGoalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSavingsGoalRepository(db *pgxpool.Pool, logger *zap.Logger) *SavingsGoalRepository {
	return &SavingsGoalRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SavingsGoalRepository) Create(ctx context.Context, g *models.SavingsGoal) error {
	query := squirrel.Insert("savings_goals").
		Columns(goalColumns...).
		Values(g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Frequency,
			g.IsDeleted, g.IsMoneyUsed, g.CompletedAt, g.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = postgres.Conn(ctx, r.db).Exec(ctx, sql, args...)
	return translate(err)
}

// GetByID ignores soft-deleted goals.
func (r *SavingsGoalRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.SavingsGoal, error) {
	return r.getOne(ctx, selectGoal(id, userID))
}

// GetForUpdate is GetByID plus a row lock held until the surrounding transaction ends.
func (r *SavingsGoalRepository) GetForUpdate(ctx context.Context, id, userID uuid.UUID) (*models.SavingsGoal, error) {
	return r.getOne(ctx, selectGoal(id, userID).Suffix("FOR UPDATE"))
}

// ListByUser returns the user's live goals, newest first.
func (r *SavingsGoalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SavingsGoal, error) {
	query := squirrel.Select(goalColumns...).
		From("savings_goals").
		Where(squirrel.Eq{"user_id": userID, "is_deleted": false}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*models.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}

	return goals, rows.Err()
}

// SumCurrent adds up the money parked in the user's non-deleted goals, leaving out exclude.
func (r *SavingsGoalRepository) SumCurrent(ctx context.Context, userID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error) {
	query := squirrel.Select("COALESCE(SUM(current_amount), 0)").
		From("savings_goals").
		Where(squirrel.Eq{"user_id": userID, "is_deleted": false}).
		Where(squirrel.NotEq{"id": exclude}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var sum decimal.Decimal
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *SavingsGoalRepository) Update(ctx context.Context, g *models.SavingsGoal) error {
	query := squirrel.Update("savings_goals").
		Set("name", g.Name).
		Set("target_amount", g.TargetAmount).
		Set("current_amount", g.CurrentAmount).
		Set("deadline", g.Deadline).
		Set("frequency", g.Frequency).
		Set("is_deleted", g.IsDeleted).
		Set("is_money_used", g.IsMoneyUsed).
		Set("completed_at", g.CompletedAt).
		Where(squirrel.Eq{"id": g.ID, "user_id": g.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	return execAffecting(ctx, r.db, query)
}

func (r *SavingsGoalRepository) getOne(ctx context.Context, query squirrel.SelectBuilder) (*models.SavingsGoal, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	g, err := scanGoal(postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err)
	}
	return g, nil
}

func selectGoal(id, userID uuid.UUID) squirrel.SelectBuilder {
	return squirrel.Select(goalColumns...).
		From("savings_goals").
		Where(squirrel.Eq{"id": id, "user_id": userID, "is_deleted": false})
}

func scanGoal(row pgx.Row) (*models.SavingsGoal, error) {
	var g models.SavingsGoal
	if err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Frequency,
		&g.IsDeleted, &g.IsMoneyUsed, &g.CompletedAt, &g.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}
