package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: map[string]*models.User{}, now: time.Now}
}

func (r *MemoryRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return nil, common.ErrorAlreadyExists
	}

	u := user.Clone()
	u.ID = uuid.NewString()
	u.CreatedAt = r.now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u

	return u.Clone(), nil
}

func (r *MemoryRepository) Find(ctx context.Context, c models.UserCriteria) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*models.User, 0)
	for _, u := range r.users {
		if c.Email != "" && u.Email != c.Email {
			continue
		}
		res = append(res, u.Clone())
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (r *MemoryRepository) Retrieve(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.Clone(), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Email != nil && r.emailTaken(*upd.Email, id) {
		return nil, common.ErrorAlreadyExists
	}

	u.Apply(upd)
	u.UpdatedAt = r.now().UTC()
	return u.Clone(), nil
}

func (r *MemoryRepository) ToggleFavorite(ctx context.Context, id, favorite string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return false, common.ErrorNotFound
	}

	var on bool
	u.Favorites, on = toggle(u.Favorites, favorite)
	u.UpdatedAt = r.now().UTC()
	return on, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}
