package notes

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	notes map[string]*models.Note
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{notes: map[string]*models.Note{}, now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := note.Clone()
	n.ID = uuid.NewString()
	if n.Date.IsZero() {
		n.Date = r.now().UTC()
	}
	r.notes[n.ID] = n
	return n.Clone(), nil
}

func (r *MemoryRepository) Find(ctx context.Context, c models.NoteCriteria) ([]*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*models.Note, 0)
	for _, n := range r.notes {
		if c.Match(n) {
			res = append(res, n.Clone())
		}
	}
	sortNewestFirst(res)
	return res, nil
}

func (r *MemoryRepository) Retrieve(ctx context.Context, id string) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return n.Clone(), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, upd models.NoteUpdate) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n.Apply(upd)
	return n.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *MemoryRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, note := range r.notes {
		if note.AuthorID == authorID {
			delete(r.notes, id)
			n++
		}
	}
	return n, nil
}
