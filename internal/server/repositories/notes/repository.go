// Package notes holds the note repository contract and its storage backends.
package notes

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository stores notes. Find returns newest first. Retrieve, Update and
// Delete fail with common.ErrorNotFound for unknown ids.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	Find(ctx context.Context, criteria models.NoteCriteria) ([]*models.Note, error)
	Retrieve(ctx context.Context, id string) (*models.Note, error)
	Update(ctx context.Context, id string, upd models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, id string) error
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
}

func sortNewestFirst(ns []*models.Note) {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].Date.After(ns[j].Date) })
}
