// Package services contains the server-side use cases. Every method validates
// its arguments first, then talks to the credential primitives and the
// repositories, and returns typed errors from common and validate.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
)

// UserService covers registration, authentication and account management.
type UserService struct {
	repos repomanager.RepositoryManager
	creds *auth.Credentials
}

func NewUserService(m repomanager.RepositoryManager, creds *auth.Credentials) *UserService {
	return &UserService{repos: m, creds: creds}
}

func duplicateEmail(email string) error {
	return common.NewLogicError(common.ErrorAlreadyExists, fmt.Sprintf("user with email %q already exists", email))
}

func userNotFound(id string) error {
	return common.NewLogicError(common.ErrorNotFound, fmt.Sprintf("user with id %q does not exist", id))
}

var errWrongCredentials = common.NewLogicError(common.ErrorWrongCredentials, "wrong credentials")

// RegisterUser creates an account and returns its public profile.
func (s *UserService) RegisterUser(ctx context.Context, name, surname, email, password string) (*models.Profile, error) {
	if err := validate.Arguments(
		validate.Arg{Name: "name", Value: name, Type: validate.String, NotEmpty: true},
		validate.Arg{Name: "surname", Value: surname, Type: validate.String, NotEmpty: true},
		validate.Arg{Name: "email", Value: email, Type: validate.String, NotEmpty: true},
		validate.Arg{Name: "password", Value: password, Type: validate.String, NotEmpty: true, MaxLen: auth.MaxPasswordLen},
	); err != nil {
		return nil, err
	}
	if err := validate.Email(email); err != nil {
		return nil, err
	}

	existing, err := s.repos.Users().Find(ctx, models.UserCriteria{Email: email})
	if err != nil {
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if len(existing) > 0 {
		return nil, duplicateEmail(email)
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.repos.Users().Create(ctx, &models.User{
		Name:      name,
		Surname:   surname,
		Email:     email,
		Password:  hash,
		Favorites: []string{},
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, duplicateEmail(email)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return u.Profile(), nil
}

// AuthenticateUser checks the credentials and issues a session token.
// Unknown emails and wrong passwords fail with the same error.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.Session, error) {
	if err := validate.Arguments(
		validate.Arg{Name: "email", Value: email, Type: validate.String, NotEmpty: true},
		validate.Arg{Name: "password", Value: password, Type: validate.String, NotEmpty: true},
	); err != nil {
		return nil, err
	}
	if err := validate.Email(email); err != nil {
		return nil, err
	}

	found, err := s.repos.Users().Find(ctx, models.UserCriteria{Email: email})
	if err != nil {
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if len(found) == 0 {
		_ = s.creds.CheckPassword("", password)
		return nil, errWrongCredentials
	}
	user := found[0]

	if err := s.creds.CheckPassword(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return nil, errWrongCredentials
		}
		return nil, fmt.Errorf("%w: stored hash unusable: %v", common.ErrorInternal, err)
	}

	token, exp, err := s.creds.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: error signing token: %v", common.ErrorInternal, err)
	}

	return &models.Session{UserID: user.ID, Token: token, ExpiresAt: exp}, nil
}

// VerifyToken returns the user id carried by a valid session token.
func (s *UserService) VerifyToken(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}
	return s.creds.VerifyToken(token)
}

func (s *UserService) RetrieveUser(ctx context.Context, id string) (*models.Profile, error) {
	if err := validate.Arguments(validate.Arg{Name: "id", Value: id, Type: validate.String, NotEmpty: true}); err != nil {
		return nil, err
	}

	u, err := s.repos.Users().Retrieve(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, userNotFound(id)
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return u.Profile(), nil
}

// blankToNil drops fields that were sent empty so they do not overwrite data.
func blankToNil(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return p
}

// UpdateUser overwrites only the fields set in upd. Blank strings are
// ignored, a new password is hashed and a new email must be unique.
// Favorites are managed by DuckService.ToggleFavorite and ignored here.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.Profile, error) {
	if err := validate.Arguments(validate.Arg{Name: "id", Value: id, Type: validate.String, NotEmpty: true}); err != nil {
		return nil, err
	}

	upd = models.UserUpdate{
		Name:     blankToNil(upd.Name),
		Surname:  blankToNil(upd.Surname),
		Email:    blankToNil(upd.Email),
		Password: blankToNil(upd.Password),
	}

	if err := validate.Arguments(
		validate.Arg{Name: "password", Value: upd.Password, Type: validate.String, Optional: true, MaxLen: auth.MaxPasswordLen},
	); err != nil {
		return nil, err
	}
	if upd.Email != nil {
		if err := validate.Email(*upd.Email); err != nil {
			return nil, err
		}
	}
	if upd.Password != nil {
		hash, err := s.creds.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		upd.Password = &hash
	}

	if upd.IsEmpty() {
		return s.RetrieveUser(ctx, id)
	}

	u, err := s.repos.Users().Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, userNotFound(id)
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, duplicateEmail(*upd.Email)
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return u.Profile(), nil
}

// DeleteUser removes the account together with its notes in one unit of work.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := validate.Arguments(validate.Arg{Name: "id", Value: id, Type: validate.String, NotEmpty: true}); err != nil {
		return err
	}

	err := s.repos.WithinTx(ctx, func(ctx context.Context, ur users.Repository, nr notes.Repository) error {
		if _, err := ur.Retrieve(ctx, id); err != nil {
			return err
		}
		if _, err := nr.DeleteByAuthor(ctx, id); err != nil {
			return err
		}
		return ur.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return userNotFound(id)
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}
