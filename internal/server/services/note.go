package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
)

// NoteService manages notes. Private notes are visible to their author only.
type NoteService struct {
	repos repomanager.RepositoryManager
}

func NewNoteService(m repomanager.RepositoryManager) *NoteService {
	return &NoteService{repos: m}
}

func noteNotFound(id string) error {
	return common.NewLogicError(common.ErrorNotFound, fmt.Sprintf("note with id %q does not exist", id))
}

func noteForbidden(id string) error {
	return common.NewLogicError(common.ErrorForbidden, fmt.Sprintf("note with id %q does not belong to user", id))
}

func (s *NoteService) CreateNote(ctx context.Context, authorID, text, parentID string, private bool) (*models.Note, error) {
	if err := validate.Arguments(
		validate.Arg{Name: "id", Value: authorID, Type: validate.String, NotEmpty: true},
		validate.Arg{Name: "text", Value: text, Type: validate.String, NotEmpty: true},
	); err != nil {
		return nil, err
	}

	if _, err := s.repos.Users().Retrieve(ctx, authorID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, userNotFound(authorID)
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if parentID != "" {
		if _, err := s.retrieveVisible(ctx, authorID, parentID); err != nil {
			return nil, err
		}
	}

	n, err := s.repos.Notes().Create(ctx, &models.Note{
		AuthorID: authorID,
		ParentID: parentID,
		Text:     text,
		Private:  private,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}
	return n, nil
}

// retrieveVisible hides other users' private notes behind a not-found error.
func (s *NoteService) retrieveVisible(ctx context.Context, viewerID, id string) (*models.Note, error) {
	n, err := s.repos.Notes().Retrieve(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, noteNotFound(id)
		}
		return nil, fmt.Errorf("error retrieving note: %w", err)
	}
	if n.Private && n.AuthorID != viewerID {
		return nil, noteNotFound(id)
	}
	return n, nil
}

func (s *NoteService) RetrieveNote(ctx context.Context, viewerID, id string) (*models.Note, error) {
	if err := validate.Arguments(validate.Arg{Name: "noteId", Value: id, Type: validate.String, NotEmpty: true}); err != nil {
		return nil, err
	}
	return s.retrieveVisible(ctx, viewerID, id)
}

// ListNotes returns every public note plus the viewer's private ones, newest first.
func (s *NoteService) ListNotes(ctx context.Context, viewerID string) ([]*models.Note, error) {
	public := false
	res, err := s.repos.Notes().Find(ctx, models.NoteCriteria{Private: &public})
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	if viewerID != "" {
		private := true
		own, err := s.repos.Notes().Find(ctx, models.NoteCriteria{AuthorID: viewerID, Private: &private})
		if err != nil {
			return nil, fmt.Errorf("error listing notes: %w", err)
		}
		res = append(res, own...)
	}

	sort.SliceStable(res, func(i, j int) bool { return res[i].Date.After(res[j].Date) })
	return res, nil
}

// ListUserNotes returns all notes of authorID, private ones included.
func (s *NoteService) ListUserNotes(ctx context.Context, authorID string) ([]*models.Note, error) {
	if err := validate.Arguments(validate.Arg{Name: "id", Value: authorID, Type: validate.String, NotEmpty: true}); err != nil {
		return nil, err
	}

	res, err := s.repos.Notes().Find(ctx, models.NoteCriteria{AuthorID: authorID})
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return res, nil
}

func (s *NoteService) owned(ctx context.Context, userID, id string) error {
	if err := validate.Arguments(
		validate.Arg{Name: "id", Value: userID, Type: validate.String, NotEmpty: true},
		validate.Arg{Name: "noteId", Value: id, Type: validate.String, NotEmpty: true},
	); err != nil {
		return err
	}

	n, err := s.retrieveVisible(ctx, userID, id)
	if err != nil {
		return err
	}
	if n.AuthorID != userID {
		return noteForbidden(id)
	}
	return nil
}

func (s *NoteService) UpdateNote(ctx context.Context, userID, id string, upd models.NoteUpdate) (*models.Note, error) {
	if err := validate.Arguments(
		validate.Arg{Name: "text", Value: upd.Text, Type: validate.String, Optional: true, NotEmpty: true},
	); err != nil {
		return nil, err
	}
	if err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	n, err := s.repos.Notes().Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, noteNotFound(id)
		}
		return nil, fmt.Errorf("error updating note: %w", err)
	}
	return n, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, userID, id string) error {
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repos.Notes().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return noteNotFound(id)
		}
		return fmt.Errorf("error deleting note: %w", err)
	}
	return nil
}

// SweepOrphans deletes notes whose author no longer exists and returns how
// many were removed.
func (s *NoteService) SweepOrphans(ctx context.Context) (int64, error) {
	all, err := s.repos.Notes().Find(ctx, models.NoteCriteria{})
	if err != nil {
		return 0, fmt.Errorf("error listing notes: %w", err)
	}

	checked := map[string]struct{}{}
	var removed int64
	for _, n := range all {
		if _, ok := checked[n.AuthorID]; ok {
			continue
		}
		checked[n.AuthorID] = struct{}{}

		_, err := s.repos.Users().Retrieve(ctx, n.AuthorID)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return removed, fmt.Errorf("error retrieving user: %w", err)
		}

		k, err := s.repos.Notes().DeleteByAuthor(ctx, n.AuthorID)
		if err != nil {
			return removed, fmt.Errorf("error deleting notes: %w", err)
		}
		removed += k
	}
	return removed, nil
}
