// Package users holds the user repository contract and its storage backends.
package users

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository stores user accounts.
//
// Create is an atomic insert-if-absent keyed on email: it fails with
// common.ErrorAlreadyExists when the email is taken. Retrieve, Update and
// Delete fail with common.ErrorNotFound for unknown ids; Update fails with
// common.ErrorAlreadyExists when the new email belongs to another user.
// ToggleFavorite adds or removes one favorite in a single atomic step and
// reports whether the id is a favorite afterwards.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Find(ctx context.Context, criteria models.UserCriteria) ([]*models.User, error)
	Retrieve(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id, favorite string) (bool, error)
}

// toggle removes favorite from favs when present and appends it otherwise.
func toggle(favs []string, favorite string) ([]string, bool) {
	res := make([]string, 0, len(favs)+1)
	removed := false
	for _, f := range favs {
		if f == favorite {
			removed = true
			continue
		}
		res = append(res, f)
	}
	if !removed {
		res = append(res, favorite)
	}
	return res, !removed
}
