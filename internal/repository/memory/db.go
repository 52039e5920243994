// Package memory keeps the whole ledger in process memory. It backs STORAGE_DRIVER=memory and
// the service and handler tests.
package memory

import (
	"context"
	"sync"

	"fin-guardian/internal/models"

	"github.com/google/uuid"
)

type DB struct {
	mu sync.RWMutex
	// txMu serialises WithinTransaction callers, which is what row locks buy in Postgres.
	txMu sync.Mutex

	users          map[uuid.UUID]models.User
	categories     map[int64]models.Category
	nextCategoryID int64
	transactions   map[uuid.UUID]models.Transaction
	budgets        map[uuid.UUID]models.Budget
	goals          map[uuid.UUID]models.SavingsGoal
	lifetime       map[uuid.UUID]models.LifetimeSavings
	recurring      map[uuid.UUID]models.RecurringTransaction
}

// New returns an empty ledger with models.DefaultCategories installed.
func New() *DB {
	db := &DB{
		users:        make(map[uuid.UUID]models.User),
		categories:   make(map[int64]models.Category),
		transactions: make(map[uuid.UUID]models.Transaction),
		budgets:      make(map[uuid.UUID]models.Budget),
		goals:        make(map[uuid.UUID]models.SavingsGoal),
		lifetime:     make(map[uuid.UUID]models.LifetimeSavings),
		recurring:    make(map[uuid.UUID]models.RecurringTransaction),
	}
	for _, c := range models.DefaultCategories {
		cat := c
		_ = db.Categories().Create(context.Background(), &cat)
	}
	return db
}

func (db *DB) Users() *UserStore { return &UserStore{db: db} }
func (db *DB) Categories() *CategoryStore { return &CategoryStore{db: db} }
func (db *DB) Transactions() *TransactionStore { return &TransactionStore{db: db} }
func (db *DB) Budgets() *BudgetStore { return &BudgetStore{db: db} }
func (db *DB) SavingsGoals() *SavingsGoalStore { return &SavingsGoalStore{db: db} }
func (db *DB) LifetimeSavings() *LifetimeSavingsStore { return &LifetimeSavingsStore{db: db} }
func (db *DB) Recurring() *RecurringStore { return &RecurringStore{db: db} }

type txKey struct{}

// journal collects the undo steps of one unit of work.
type journal struct {
	undo []func()
}

// WithinTransaction runs fn with every other transactional caller excluded. When fn fails only
// the entries fn wrote are put back, so writes made meanwhile outside the unit survive. Nested
// calls join the outer unit.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	j := &journal{}
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		db.rollback(j)
		return err
	}
	return nil
}

func (db *DB) rollback(j *journal) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

// track remembers the current state of m[key] so a failing unit of work can put it back.
// It must be called with db.mu held, before the entry changes.
func track[K comparable, V any](ctx context.Context, m map[K]V, key K) {
	j, ok := ctx.Value(txKey{}).(*journal)
	if !ok {
		return
	}
	prev, existed := m[key]
	j.undo = append(j.undo, func() {
		if existed {
			m[key] = prev
		} else {
			delete(m, key)
		}
	})
}

// categoryRef must be called with db.mu held.
func (db *DB) categoryRef(id int64) *models.Category {
	c, ok := db.categories[id]
	if !ok {
		return nil
	}
	return &c
}
