package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func ptr[T any](v T) *T { return &v }

func newCredentials() *auth.Credentials {
	return auth.NewCredentials(auth.BcryptHasher{Cost: bcrypt.MinCost}, auth.NewTokenManager([]byte("k"), time.Hour))
}

// stubManager lets a test swap one repository for a fake.
type stubManager struct {
	users users.Repository
	notes notes.Repository
}

func (m *stubManager) Users() users.Repository { return m.users }
func (m *stubManager) Notes() notes.Repository { return m.notes }
func (m *stubManager) WithinTx(ctx context.Context, fn repomanager.TxFunc) error {
	return fn(ctx, m.users, m.notes)
}
func (m *stubManager) Close(context.Context) error { return nil }

// failingUsers fails every call with err.
type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, f.err }
func (f failingUsers) Find(context.Context, models.UserCriteria) ([]*models.User, error) {
	return nil, f.err
}
func (f failingUsers) Retrieve(context.Context, string) (*models.User, error) { return nil, f.err }
func (f failingUsers) Update(context.Context, string, models.UserUpdate) (*models.User, error) {
	return nil, f.err
}
func (f failingUsers) Delete(context.Context, string) error { return f.err }
func (f failingUsers) ToggleFavorite(context.Context, string, string) (bool, error) {
	return false, f.err
}

func registerJane(t *testing.T, s *UserService) *models.Profile {
	t.Helper()
	p, err := s.RegisterUser(context.Background(), "Jane", "Doe", "jane@mail.com", "123")
	require.NoError(t, err)
	return p
}
