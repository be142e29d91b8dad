package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*UserService, repomanager.RepositoryManager) {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	return NewUserService(m, newCredentials()), m
}

func TestRegisterUser_StoresHashedPassword(t *testing.T) {
	s, m := newUserService(t)
	ctx := context.Background()

	p := registerJane(t, s)
	assert.Equal(t, "jane@mail.com", p.Email)
	assert.NotEmpty(t, p.ID)

	stored, err := m.Users().Find(ctx, models.UserCriteria{Email: "jane@mail.com"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEqual(t, "123", stored[0].Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored[0].Password), []byte("123")))
}

func TestRegisterUser_Duplicate(t *testing.T) {
	s, _ := newUserService(t)
	registerJane(t, s)

	_, err := s.RegisterUser(context.Background(), "Jane", "Doe", "jane@mail.com", "x")

	var le *common.LogicError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, `user with email "jane@mail.com" already exists`, err.Error())
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegisterUser_Validation(t *testing.T) {
	s, m := newUserService(t)

	tests := []struct {
		name                         string
		first, last, email, password string
		wantMsg                      string
	}{
		{"empty name", "", "Doe", "jane@mail.com", "1", "name is empty"},
		{"blank surname", "Jane", "  ", "jane@mail.com", "1", "surname is empty"},
		{"empty email", "Jane", "Doe", "", "1", "email is empty"},
		{"bad email", "Jane", "Doe", "jane#mail.com", "1", "jane#mail.com is not an e-mail"},
		{"empty password", "Jane", "Doe", "jane@mail.com", "", "password is empty"},
		{"password too long", "Jane", "Doe", "jane@mail.com", strings.Repeat("x", 73), "password is longer than 72 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RegisterUser(context.Background(), tt.first, tt.last, tt.email, tt.password)
			require.ErrorIs(t, err, validate.ErrValidation)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}

	all, err := m.Users().Find(context.Background(), models.UserCriteria{})
	require.NoError(t, err)
	assert.Empty(t, all, "validation must run before any side effect")
}

func TestRegisterUser_RepositoryError(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewUserService(&stubManager{users: failingUsers{err: boom}}, newCredentials())

	_, err := s.RegisterUser(context.Background(), "Jane", "Doe", "jane@mail.com", "1")
	require.ErrorIs(t, err, boom)
}

func TestAuthenticateUser(t *testing.T) {
	s, _ := newUserService(t)
	p := registerJane(t, s)
	ctx := context.Background()

	sess, err := s.AuthenticateUser(ctx, "jane@mail.com", "123")
	require.NoError(t, err)
	assert.Equal(t, p.ID, sess.UserID)
	assert.NotEmpty(t, sess.Token)

	id, err := s.VerifyToken(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)
}

func TestAuthenticateUser_GenericFailure(t *testing.T) {
	s, _ := newUserService(t)
	registerJane(t, s)
	ctx := context.Background()

	_, wrongPass := s.AuthenticateUser(ctx, "jane@mail.com", "124")
	_, unknown := s.AuthenticateUser(ctx, "john@mail.com", "123")

	for _, err := range []error{wrongPass, unknown} {
		require.ErrorIs(t, err, common.ErrorWrongCredentials)
		assert.EqualError(t, err, "wrong credentials")
	}
}

func TestVerifyToken_Invalid(t *testing.T) {
	s, _ := newUserService(t)

	for _, tok := range []string{"", "garbage"} {
		_, err := s.VerifyToken(context.Background(), tok)
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	}
}

func TestRetrieveUser(t *testing.T) {
	s, _ := newUserService(t)
	p := registerJane(t, s)

	got, err := s.RetrieveUser(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = s.RetrieveUser(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), `"nope"`)

	_, err = s.RetrieveUser(context.Background(), "")
	assert.EqualError(t, err, "id is empty")
}

func TestProfileNeverCarriesPassword(t *testing.T) {
	typ := reflect.TypeOf(models.Profile{})
	for i := 0; i < typ.NumField(); i++ {
		assert.NotEqual(t, "Password", typ.Field(i).Name)
	}
}

func TestUpdateUser_PartialAndBlankIgnored(t *testing.T) {
	s, m := newUserService(t)
	p := registerJane(t, s)
	ctx := context.Background()

	got, err := s.UpdateUser(ctx, p.ID, models.UserUpdate{Surname: ptr("Roe"), Name: ptr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
	assert.Equal(t, "Roe", got.Surname)
	assert.Equal(t, "jane@mail.com", got.Email)

	_, err = s.UpdateUser(ctx, p.ID, models.UserUpdate{Password: ptr("new")})
	require.NoError(t, err)
	_, err = s.AuthenticateUser(ctx, "jane@mail.com", "new")
	require.NoError(t, err)

	stored, err := m.Users().Retrieve(ctx, p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "new", stored.Password)
}

func TestUpdateUser_IgnoresFavorites(t *testing.T) {
	s, _ := newUserService(t)
	p := registerJane(t, s)

	got, err := s.UpdateUser(context.Background(), p.ID, models.UserUpdate{Favorites: ptr([]string{"d1"})})
	require.NoError(t, err)
	assert.Empty(t, got.Favorites)
}

func TestUpdateUser_Errors(t *testing.T) {
	s, _ := newUserService(t)
	p := registerJane(t, s)
	_, err := s.RegisterUser(context.Background(), "John", "Doe", "john@mail.com", "1")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.UpdateUser(ctx, p.ID, models.UserUpdate{Email: ptr("john@mail.com")})
	assert.EqualError(t, err, `user with email "john@mail.com" already exists`)

	_, err = s.UpdateUser(ctx, p.ID, models.UserUpdate{Email: ptr("not-an-email")})
	var fe *validate.FormatError
	require.ErrorAs(t, err, &fe)

	_, err = s.UpdateUser(ctx, "missing", models.UserUpdate{Name: ptr("x")})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateUser_PasswordTooLong(t *testing.T) {
	s, m := newUserService(t)
	p := registerJane(t, s)
	ctx := context.Background()

	before, err := m.Users().Retrieve(ctx, p.ID)
	require.NoError(t, err)

	_, err = s.UpdateUser(ctx, p.ID, models.UserUpdate{Surname: ptr("Roe"), Password: ptr(strings.Repeat("x", 73))})
	require.ErrorIs(t, err, validate.ErrValidation)
	assert.EqualError(t, err, "password is longer than 72 bytes")

	after, err := m.Users().Retrieve(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Password, after.Password)
	assert.Equal(t, "Doe", after.Surname)

	_, err = s.UpdateUser(ctx, p.ID, models.UserUpdate{Password: ptr(strings.Repeat("x", 72))})
	require.NoError(t, err)
}

func TestDeleteUser_CascadesNotes(t *testing.T) {
	s, m := newUserService(t)
	p := registerJane(t, s)
	ctx := context.Background()

	ns := NewNoteService(m)
	_, err := ns.CreateNote(ctx, p.ID, "hello", "", false)
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, p.ID))

	_, err = s.RetrieveUser(ctx, p.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	left, err := m.Notes().Find(ctx, models.NoteCriteria{AuthorID: p.ID})
	require.NoError(t, err)
	assert.Empty(t, left)

	err = s.DeleteUser(ctx, p.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteUser_UsesUnitOfWork(t *testing.T) {
	base := repomanager.NewMemoryRepositoryManager()
	tm := &txCountingManager{RepositoryManager: base}
	s := NewUserService(tm, newCredentials())
	p := registerJane(t, s)

	require.NoError(t, s.DeleteUser(context.Background(), p.ID))
	assert.Equal(t, 1, tm.calls)
}

type txCountingManager struct {
	repomanager.RepositoryManager
	calls int
}

func (m *txCountingManager) WithinTx(ctx context.Context, fn repomanager.TxFunc) error {
	m.calls++
	return m.RepositoryManager.WithinTx(ctx, fn)
}
