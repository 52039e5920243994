package memory

import (
	"context"
	"sort"
	"time"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStore struct {
	db *DB
}

func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.transactions[tx.ID]; ok {
		return repository.ErrConflict
	}
	stored := *tx
	stored.Category = nil
	track(ctx, s.db.transactions, tx.ID)
	s.db.transactions[tx.ID] = stored
	return nil
}

func (s *TransactionStore) GetByID(_ context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	tx, ok := s.db.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return s.withCategory(tx), nil
}

func (s *TransactionStore) List(_ context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, int, error) {
	all := s.matching(models.TransactionFilter{UserID: userID})
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *TransactionStore) ListRange(_ context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	return s.matching(filter), nil
}

func (s *TransactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.transactions[tx.ID]
	if !ok || stored.UserID != tx.UserID {
		return repository.ErrNotFound
	}
	stored.Description = tx.Description
	stored.CategoryID = tx.CategoryID
	track(ctx, s.db.transactions, tx.ID)
	s.db.transactions[tx.ID] = stored
	return nil
}

func (s *TransactionStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	tx, ok := s.db.transactions[id]
	if !ok || tx.UserID != userID {
		return repository.ErrNotFound
	}
	track(ctx, s.db.transactions, id)
	delete(s.db.transactions, id)
	return nil
}

func (s *TransactionStore) Sum(_ context.Context, filter models.TransactionFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range s.matching(filter) {
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

func (s *TransactionStore) Balance(_ context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, tx := range s.matching(models.TransactionFilter{UserID: userID}) {
		balance = balance.Add(tx.Signed())
	}
	return balance, nil
}

func (s *TransactionStore) TotalsByCategory(_ context.Context, filter models.TransactionFilter) ([]models.CategoryTotal, error) {
	type key struct {
		id  int64
		typ models.EntryType
	}
	grouped := make(map[key]*models.CategoryTotal)
	var order []key

	for _, tx := range s.matching(filter) {
		if tx.Category == nil {
			continue
		}
		k := key{tx.CategoryID, tx.Type}
		ct, ok := grouped[k]
		if !ok {
			ct = &models.CategoryTotal{
				CategoryID:   tx.CategoryID,
				CategoryName: tx.Category.Name,
				Icon:         tx.Category.Icon,
				Color:        tx.Category.Color,
				Type:         tx.Type,
			}
			grouped[k] = ct
			order = append(order, k)
		}
		ct.Total = ct.Total.Add(tx.Amount)
		ct.Count++
	}

	totals := make([]models.CategoryTotal, 0, len(order))
	for _, k := range order {
		totals = append(totals, *grouped[k])
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].CategoryID < totals[j].CategoryID
	})
	return totals, nil
}

func (s *TransactionStore) DailyTotals(_ context.Context, filter models.TransactionFilter) ([]models.DailyTotal, error) {
	byDay := make(map[time.Time]*models.DailyTotal)
	for _, tx := range s.matching(filter) {
		y, m, d := tx.CreatedAt.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, tx.CreatedAt.Location())
		dt, ok := byDay[day]
		if !ok {
			dt = &models.DailyTotal{Day: day}
			byDay[day] = dt
		}
		if tx.Type == models.EntryTypeIncome {
			dt.Income = dt.Income.Add(tx.Amount)
		} else {
			dt.Expense = dt.Expense.Add(tx.Amount)
		}
	}

	days := make([]models.DailyTotal, 0, len(byDay))
	for _, dt := range byDay {
		days = append(days, *dt)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })
	return days, nil
}

// matching returns copies of every transaction passing filter, newest first.
func (s *TransactionStore) matching(f models.TransactionFilter) []*models.Transaction {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.Transaction
	for _, tx := range s.db.transactions {
		if tx.UserID != f.UserID {
			continue
		}
		if f.CategoryID != nil && tx.CategoryID != *f.CategoryID {
			continue
		}
		if f.Type != nil && tx.Type != *f.Type {
			continue
		}
		if f.From != nil && tx.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && tx.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, s.withCategory(tx))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// withCategory must be called with db.mu held.
func (s *TransactionStore) withCategory(tx models.Transaction) *models.Transaction {
	tx.Category = s.db.categoryRef(tx.CategoryID)
	return &tx
}
