package notes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/blob"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

// DocumentRepository keeps all notes in one JSON document (notes.json).
// The note JSON shape is also the stored shape.
type DocumentRepository struct {
	col *blob.Collection[models.Note]
	now func() time.Time
}

func NewDocumentRepository(store blob.Store) *DocumentRepository {
	return &DocumentRepository{col: blob.NewCollection[models.Note](store), now: time.Now}
}

func indexOf(items []models.Note, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *DocumentRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	n := note.Clone()
	n.ID = uuid.NewString()
	if n.Date.IsZero() {
		n.Date = r.now().UTC()
	}

	err := r.col.Modify(ctx, func(items []models.Note) ([]models.Note, error) {
		return append(items, *n), nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *DocumentRepository) Find(ctx context.Context, c models.NoteCriteria) ([]*models.Note, error) {
	res := make([]*models.Note, 0)
	err := r.col.View(ctx, func(items []models.Note) error {
		for i := range items {
			if c.Match(&items[i]) {
				res = append(res, items[i].Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(res)
	return res, nil
}

func (r *DocumentRepository) Retrieve(ctx context.Context, id string) (*models.Note, error) {
	var found *models.Note
	err := r.col.View(ctx, func(items []models.Note) error {
		i := indexOf(items, id)
		if i < 0 {
			return common.ErrorNotFound
		}
		found = items[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *DocumentRepository) Update(ctx context.Context, id string, upd models.NoteUpdate) (*models.Note, error) {
	var updated *models.Note
	err := r.col.Modify(ctx, func(items []models.Note) ([]models.Note, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, common.ErrorNotFound
		}
		items[i].Apply(upd)
		updated = items[i].Clone()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return r.col.Modify(ctx, func(items []models.Note) ([]models.Note, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, common.ErrorNotFound
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (r *DocumentRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	var removed int64
	err := r.col.Modify(ctx, func(items []models.Note) ([]models.Note, error) {
		kept := items[:0]
		for _, n := range items {
			if n.AuthorID == authorID {
				removed++
				continue
			}
			kept = append(kept, n)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
