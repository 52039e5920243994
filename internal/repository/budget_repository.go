package repository

import (
	"context"

	"fin-guardian/internal/models"
	"fin-guardian/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var budgetColumns = []string{
	"b.id", "b.user_id", "b.category_id", "b.limit_amount", "b.period", "b.created_at",
	"c.name", "c.type", "c.icon", "c.color",
}

type BudgetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBudgetRepository(db *pgxpool.Pool, logger *zap.Logger) *BudgetRepository {
	return &BudgetRepository{
		db:     db,
		logger: logger,
	}
}

// Create fails with ErrConflict when the user already has a budget for the category.
func (r *BudgetRepository) Create(ctx context.Context, b *models.Budget) error {
	query := squirrel.Insert("budgets").
		Columns("id", "user_id", "category_id", "limit_amount", "period", "created_at").
		Values(b.ID, b.UserID, b.CategoryID, b.Limit, b.Period, b.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = postgres.Conn(ctx, r.db).Exec(ctx, sql, args...)
	return translate(err)
}

func (r *BudgetRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Budget, error) {
	return r.getOne(ctx, squirrel.Eq{"b.id": id, "b.user_id": userID})
}

func (r *BudgetRepository) GetByCategory(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.Budget, error) {
	return r.getOne(ctx, squirrel.Eq{"b.user_id": userID, "b.category_id": categoryID})
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	query := selectBudgets().
		Where(squirrel.Eq{"b.user_id": userID}).
		OrderBy("b.created_at DESC").
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

	var budgets []*models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

func (r *BudgetRepository) Update(ctx context.Context, b *models.Budget) error {
	query := squirrel.Update("budgets").
		Set("limit_amount", b.Limit).
		Set("period", b.Period).
		Where(squirrel.Eq{"id": b.ID, "user_id": b.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	return execAffecting(ctx, r.db, query)
}

func (r *BudgetRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := squirrel.Delete("budgets").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	return execAffecting(ctx, r.db, query)
}

func (r *BudgetRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Budget, error) {
	query := selectBudgets().Where(where).PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	b, err := scanBudget(postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func selectBudgets() squirrel.SelectBuilder {
	return squirrel.Select(budgetColumns...).
		From("budgets b").
		LeftJoin("categories c ON c.id = b.category_id")
}

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var (
		b     models.Budget
		name  *string
		typ   *models.EntryType
		icon  *string
		color *string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Period, &b.CreatedAt, &name, &typ, &icon, &color); err != nil {
		return nil, err
	}
	if name != nil {
		b.Category = &models.Category{ID: b.CategoryID, Name: *name, Type: *typ, Icon: *icon, Color: *color}
	}
	return &b, nil
}

// execAffecting runs a write and reports ErrNotFound when no row matched.
func execAffecting(ctx context.Context, db *pgxpool.Pool, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := postgres.Conn(ctx, db).Exec(ctx, sql, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
