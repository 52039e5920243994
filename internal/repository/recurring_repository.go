package repository

import (
	"context"
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var recurringColumns = []string{
	"r.id", "r.user_id", "r.category_id", "r.amount", "r.type", "r.frequency", "r.next_run", "r.active", "r.created_at",
	"c.name", "c.type", "c.icon", "c.color",
}

type RecurringRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecurringRepository(db *pgxpool.Pool, logger *zap.Logger) *RecurringRepository {
	return &RecurringRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RecurringRepository) Create(ctx context.Context, rt *models.RecurringTransaction) error {
	query := squirrel.Insert("recurring_transactions").
		Columns("id", "user_id", "category_id", "amount", "type", "frequency", "next_run", "active", "created_at").
		Values(rt.ID, rt.UserID, rt.CategoryID, rt.Amount, rt.Type, rt.Frequency, rt.NextRun, rt.Active, rt.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = postgres.Conn(ctx, r.db).Exec(ctx, sql, args...)
	return translate(err)
}

func (r *RecurringRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.RecurringTransaction, error) {
	return r.getOne(ctx, selectRecurring().Where(squirrel.Eq{"r.id": id, "r.user_id": userID}))
}

// GetForUpdate locks the template row. The lock is taken on the template only, not on its
// category.
func (r *RecurringRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.RecurringTransaction, error) {
	return r.getOne(ctx, selectRecurring().Where(squirrel.Eq{"r.id": id}).Suffix("FOR UPDATE OF r"))
}

func (r *RecurringRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RecurringTransaction, error) {
	return r.list(ctx, selectRecurring().
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.next_run ASC"))
}

// ListDue returns every active template whose next run is at or before now.
func (r *RecurringRepository) ListDue(ctx context.Context, now time.Time) ([]*models.RecurringTransaction, error) {
	return r.list(ctx, selectRecurring().
		Where(squirrel.Eq{"r.active": true}).
		Where(squirrel.LtOrEq{"r.next_run": now}).
		OrderBy("r.next_run ASC"))
}

func (r *RecurringRepository) Update(ctx context.Context, rt *models.RecurringTransaction) error {
	query := squirrel.Update("recurring_transactions").
		Set("amount", rt.Amount).
		Set("category_id", rt.CategoryID).
		Set("type", rt.Type).
		Set("frequency", rt.Frequency).
		Set("next_run", rt.NextRun).
		Set("active", rt.Active).
		Where(squirrel.Eq{"id": rt.ID, "user_id": rt.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	return execAffecting(ctx, r.db, query)
}

func (r *RecurringRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := squirrel.Delete("recurring_transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	return execAffecting(ctx, r.db, query)
}

func (r *RecurringRepository) getOne(ctx context.Context, query squirrel.SelectBuilder) (*models.RecurringTransaction, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rt, err := scanRecurring(postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err)
	}
	return rt, nil
}

func (r *RecurringRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.RecurringTransaction, error) {
	sql, args, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*models.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, rt)
	}

	return templates, rows.Err()
}

func selectRecurring() squirrel.SelectBuilder {
	return squirrel.Select(recurringColumns...).
		From("recurring_transactions r").
		LeftJoin("categories c ON c.id = r.category_id")
}

func scanRecurring(row pgx.Row) (*models.RecurringTransaction, error) {
	var (
		rt    models.RecurringTransaction
		name  *string
		typ   *models.EntryType
		icon  *string
		color *string
	)
	if err := row.Scan(
		&rt.ID, &rt.UserID, &rt.CategoryID, &rt.Amount, &rt.Type, &rt.Frequency, &rt.NextRun, &rt.Active, &rt.CreatedAt,
		&name, &typ, &icon, &color,
	); err != nil {
		return nil, err
	}
	if name != nil {
		rt.Category = &models.Category{ID: rt.CategoryID, Name: *name, Type: *typ, Icon: *icon, Color: *color}
	}
	return &rt, nil
}
