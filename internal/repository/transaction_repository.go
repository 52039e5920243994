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

var transactionColumns = []string{
	"t.id", "t.user_id", "t.category_id", "t.amount", "t.type", "t.description", "t.created_at",
	"c.name", "c.type", "c.icon", "c.color",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns("id", "user_id", "category_id", "amount", "type", "description", "created_at").
		Values(tx.ID, tx.UserID, tx.CategoryID, tx.Amount, tx.Type, tx.Description, tx.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = postgres.Conn(ctx, r.db).Exec(ctx, sql, args...)
	return translate(err)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	query := selectTransactions().
		Where(squirrel.Eq{"t.id": id, "t.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translate(err)
	}
	return tx, nil
}

// List returns one page of the user's transactions, newest first, and the total count.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, int, error) {
	countQuery := squirrel.Select("COUNT(*)").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := selectTransactions().
		Where(squirrel.Eq{"t.user_id": userID}).
		OrderBy("t.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	txs, err := r.query(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// ListRange returns every transaction matching filter, newest first.
func (r *TransactionRepository) ListRange(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	query := applyTransactionFilter(selectTransactions(), filter).
		OrderBy("t.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.query(ctx, query)
}

// Update persists the mutable fields of a transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		Set("description", tx.Description).
		Set("category_id", tx.CategoryID).
		Where(squirrel.Eq{"id": tx.ID, "user_id": tx.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	return execAffecting(ctx, r.db, query)
}

func (r *TransactionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	return execAffecting(ctx, r.db, query)
}

// Sum adds up amounts matching filter regardless of type unless filter.Type is set.
func (r *TransactionRepository) Sum(ctx context.Context, filter models.TransactionFilter) (decimal.Decimal, error) {
	query := applyTransactionFilter(
		squirrel.Select("COALESCE(SUM(t.amount), 0)").From("transactions t"),
		filter,
	).PlaceholderFormat(squirrel.Dollar)

	return r.scanDecimal(ctx, query)
}

// Balance is income minus expenses over all of the user's transactions.
func (r *TransactionRepository) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := squirrel.Select("COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE -t.amount END), 0)").
		From("transactions t").
		Where(squirrel.Eq{"t.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	return r.scanDecimal(ctx, query)
}

// TotalsByCategory groups matching transactions by category and type, largest total first.
func (r *TransactionRepository) TotalsByCategory(ctx context.Context, filter models.TransactionFilter) ([]models.CategoryTotal, error) {
	query := applyTransactionFilter(
		squirrel.Select("c.id", "c.name", "c.icon", "c.color", "t.type", "SUM(t.amount) AS total", "COUNT(t.id)").
			From("transactions t").
			Join("categories c ON c.id = t.category_id"),
		filter,
	).
		GroupBy("c.id", "c.name", "c.icon", "c.color", "t.type").
		OrderBy("total DESC").
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

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Icon, &ct.Color, &ct.Type, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}

// DailyTotals returns income and expense per calendar day, oldest first.
func (r *TransactionRepository) DailyTotals(ctx context.Context, filter models.TransactionFilter) ([]models.DailyTotal, error) {
	query := applyTransactionFilter(
		squirrel.Select(
			"DATE_TRUNC('day', t.created_at) AS day",
			"COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE 0 END), 0)",
			"COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount ELSE 0 END), 0)",
		).From("transactions t"),
		filter,
	).
		GroupBy("day").
		OrderBy("day").
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

	var days []models.DailyTotal
	for rows.Next() {
		var d models.DailyTotal
		if err := rows.Scan(&d.Day, &d.Income, &d.Expense); err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

func (r *TransactionRepository) query(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Transaction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) scanDecimal(ctx context.Context, query squirrel.SelectBuilder) (decimal.Decimal, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func selectTransactions() squirrel.SelectBuilder {
	return squirrel.Select(transactionColumns...).
		From("transactions t").
		LeftJoin("categories c ON c.id = t.category_id")
}

func applyTransactionFilter(q squirrel.SelectBuilder, f models.TransactionFilter) squirrel.SelectBuilder {
	q = q.Where(squirrel.Eq{"t.user_id": f.UserID})
	if f.CategoryID != nil {
		q = q.Where(squirrel.Eq{"t.category_id": *f.CategoryID})
	}
	if f.Type != nil {
		q = q.Where(squirrel.Eq{"t.type": *f.Type})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"t.created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"t.created_at": *f.To})
	}
	return q
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		tx    models.Transaction
		name  *string
		typ   *models.EntryType
		icon  *string
		color *string
	)
	if err := row.Scan(
		&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Amount, &tx.Type, &tx.Description, &tx.CreatedAt,
		&name, &typ, &icon, &color,
	); err != nil {
		return nil, err
	}
	if name != nil {
		tx.Category = &models.Category{ID: tx.CategoryID, Name: *name, Type: *typ, Icon: *icon, Color: *color}
	}
	return &tx, nil
}
