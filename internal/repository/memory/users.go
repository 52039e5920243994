package memory

import (
	"context"
	"sort"
	"strings"

	"fin-guardian/internal/models"
	"fin-guardian/internal/repository"

	"github.com/google/uuid"
)

type UserStore struct {
	db *DB
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if u.ID == user.ID || u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return repository.ErrConflict
		}
	}
	track(ctx, s.db.users, user.ID)
	s.db.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

// LockForUpdate only checks existence; WithinTransaction already excludes other writers.
func (s *UserStore) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	_, err := s.GetByID(ctx, id)
	return err
}

func (s *UserStore) find(match func(models.User) bool) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

type CategoryStore struct {
	db *DB
}

// Create behaves like an upsert on (name, type) and fills in ID.
func (s *CategoryStore) Create(ctx context.Context, cat *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for id, c := range s.db.categories {
		if c.Name == cat.Name && c.Type == cat.Type {
			cat.ID = id
			track(ctx, s.db.categories, id)
			s.db.categories[id] = *cat
			return nil
		}
	}
	s.db.nextCategoryID++
	cat.ID = s.db.nextCategoryID
	track(ctx, s.db.categories, cat.ID)
	s.db.categories[cat.ID] = *cat
	return nil
}

func (s *CategoryStore) List(_ context.Context, typ *models.EntryType) ([]*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*models.Category
	for _, c := range s.db.categories {
		if typ != nil && c.Type != *typ {
			continue
		}
		cat := c
		out = append(out, &cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *CategoryStore) GetByID(_ context.Context, id int64) (*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if c := s.db.categoryRef(id); c != nil {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (s *CategoryStore) GetByName(_ context.Context, name string, typ models.EntryType) (*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, c := range s.db.categories {
		if c.Name == name && c.Type == typ {
			found := c
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}
