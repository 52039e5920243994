package repository

import (
	"context"

	"fin-guardian/internal/models"
	"fin-guardian/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the category unless one with the same name and type exists, and fills in ID.
func (r *CategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	query := squirrel.Insert("categories").
		Columns("name", "type", "icon", "color").
		Values(cat.Name, cat.Type, cat.Icon, cat.Color).
		Suffix("ON CONFLICT (name, type) DO UPDATE SET icon = EXCLUDED.icon, color = EXCLUDED.color RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return translate(postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&cat.ID))
}

func (r *CategoryRepository) List(ctx context.Context, typ *models.EntryType) ([]*models.Category, error) {
	query := squirrel.Select("id", "name", "type", "icon", "color").
		From("categories").
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if typ != nil {
		query = query.Where(squirrel.Eq{"type": *typ})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.Icon, &cat.Color); err != nil {
			return nil, err
		}
		categories = append(categories, &cat)
	}

	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string, typ models.EntryType) (*models.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name, "type": typ})
}

func (r *CategoryRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Category, error) {
	query := squirrel.Select("id", "name", "type", "icon", "color").
		From("categories").
		Where(where).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var cat models.Category
	err = postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&cat.ID, &cat.Name, &cat.Type, &cat.Icon, &cat.Color)
	if err != nil {
		return nil, translate(err)
	}

	return &cat, nil
}
