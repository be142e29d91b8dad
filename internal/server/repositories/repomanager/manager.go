// Package repomanager builds the user and note repositories for the
// configured storage kind and runs multi-repository units of work.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

// TxFunc receives repositories bound to the current unit of work.
type TxFunc func(ctx context.Context, users users.Repository, notes notes.Repository) error

type RepositoryManager interface {
	Users() users.Repository
	Notes() notes.Repository
	// WithinTx runs fn atomically where the backend supports transactions
	// (PostgreSQL) and directly otherwise.
	WithinTx(ctx context.Context, fn TxFunc) error
	Close(ctx context.Context) error
}

// simpleManager serves backends without transactions.
type simpleManager struct {
	users users.Repository
	notes notes.Repository
	close func(ctx context.Context) error
}

func (m *simpleManager) Users() users.Repository { return m.users }
func (m *simpleManager) Notes() notes.Repository { return m.notes }

func (m *simpleManager) WithinTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, m.users, m.notes)
}

func (m *simpleManager) Close(ctx context.Context) error {
	if m.close == nil {
		return nil
	}
	return m.close(ctx)
}

// NewMemoryRepositoryManager keeps everything in process memory.
func NewMemoryRepositoryManager() RepositoryManager {
	return &simpleManager{users: users.NewMemoryRepository(), notes: notes.NewMemoryRepository()}
}
