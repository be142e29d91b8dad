package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/blob"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

// userRecord is the on-disk shape of a user.
type userRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRecord(u *models.User) userRecord {
	return userRecord{
		ID: u.ID, Name: u.Name, Surname: u.Surname, Email: u.Email, Password: u.Password,
		Favorites: u.Favorites, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (r userRecord) model() *models.User {
	return &models.User{
		ID: r.ID, Name: r.Name, Surname: r.Surname, Email: r.Email, Password: r.Password,
		Favorites: append([]string(nil), r.Favorites...), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// DocumentRepository keeps all users in one JSON document (users.json) in a
// blob.Store.
type DocumentRepository struct {
	col *blob.Collection[userRecord]
	now func() time.Time
}

func NewDocumentRepository(store blob.Store) *DocumentRepository {
	return &DocumentRepository{col: blob.NewCollection[userRecord](store), now: time.Now}
}

func indexOf(items []userRecord, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func emailTaken(items []userRecord, email, exceptID string) bool {
	for _, it := range items {
		if it.Email == email && it.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *DocumentRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var created *models.User
	err := r.col.Modify(ctx, func(items []userRecord) ([]userRecord, error) {
		if emailTaken(items, user.Email, "") {
			return nil, common.ErrorAlreadyExists
		}
		rec := toRecord(user)
		rec.ID = uuid.NewString()
		rec.CreatedAt = r.now().UTC()
		rec.UpdatedAt = rec.CreatedAt
		if rec.Favorites == nil {
			rec.Favorites = []string{}
		}
		created = rec.model()
		return append(items, rec), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *DocumentRepository) Find(ctx context.Context, c models.UserCriteria) ([]*models.User, error) {
	res := make([]*models.User, 0)
	err := r.col.View(ctx, func(items []userRecord) error {
		for _, it := range items {
			if c.Email != "" && it.Email != c.Email {
				continue
			}
			res = append(res, it.model())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *DocumentRepository) Retrieve(ctx context.Context, id string) (*models.User, error) {
	var found *models.User
	err := r.col.View(ctx, func(items []userRecord) error {
		i := indexOf(items, id)
		if i < 0 {
			return common.ErrorNotFound
		}
		found = items[i].model()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *DocumentRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	var updated *models.User
	err := r.col.Modify(ctx, func(items []userRecord) ([]userRecord, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, common.ErrorNotFound
		}
		if upd.Email != nil && emailTaken(items, *upd.Email, id) {
			return nil, common.ErrorAlreadyExists
		}
		u := items[i].model()
		u.Apply(upd)
		u.UpdatedAt = r.now().UTC()
		items[i] = toRecord(u)
		updated = u
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *DocumentRepository) ToggleFavorite(ctx context.Context, id, favorite string) (bool, error) {
	var on bool
	err := r.col.Modify(ctx, func(items []userRecord) ([]userRecord, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, common.ErrorNotFound
		}
		items[i].Favorites, on = toggle(items[i].Favorites, favorite)
		items[i].UpdatedAt = r.now().UTC()
		return items, nil
	})
	if err != nil {
		return false, err
	}
	return on, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return r.col.Modify(ctx, func(items []userRecord) ([]userRecord, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, common.ErrorNotFound
		}
		return append(items[:i], items[i+1:]...), nil
	})
}
