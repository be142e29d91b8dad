package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	cols = []string{"id", "name", "surname", "email", "password", "favorites", "created_at", "updated_at"}
	ts   = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
)

const (
	insertQ   = `(?s)^INSERT\s+INTO\s+users\s*\(name,\s*surname,\s*email,\s*password,\s*favorites\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*ON\s+CONFLICT\s*\(email\)\s*DO\s+NOTHING\s+RETURNING\s+id,`
	findQ     = `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+\(\$1\s*=\s*''\s+OR\s+email\s*=\s*\$1\)\s+ORDER\s+BY\s+created_at$`
	retrieveQ = `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	updateQ   = `(?s)^UPDATE\s+users\s+SET.*COALESCE\(\$6::jsonb,\s*favorites\).*WHERE\s+id\s*=\s*\$1\s+RETURNING`
	deleteQ   = `^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	toggleQ   = `(?s)^UPDATE\s+users\s+SET\s+favorites\s*=\s*CASE\s+WHEN\s+favorites\s+\?\s+\$2::text.*WHERE\s+id\s*=\s*\$1\s+RETURNING\s+favorites\s+\?\s+\$2::text$`
)

func janeRow() *sqlmock.Rows {
	return sqlmock.NewRows(cols).AddRow("u-1", "Jane", "Doe", "jane@mail.com", "hash", []byte(`["d1"]`), ts, ts)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("Jane", "Doe", "jane@mail.com", "hash", `[]`).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u-1", "Jane", "Doe", "jane@mail.com", "hash", []byte(`[]`), ts, ts))

	got, err := repo.Create(context.Background(), &models.User{Name: "Jane", Surname: "Doe", Email: "jane@mail.com", Password: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "jane@mail.com" || !got.CreatedAt.Equal(ts) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_EmailTaken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnRows(sqlmock.NewRows(cols))

	_, err := repo.Create(context.Background(), &models.User{Email: "jane@mail.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "jane@mail.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFind_ByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).WithArgs("jane@mail.com").WillReturnRows(janeRow())

	got, err := repo.Find(context.Background(), models.UserCriteria{Email: "jane@mail.com"})
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "u-1" || len(got[0].Favorites) != 1 || got[0].Favorites[0] != "d1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFind_NoMatchIsEmptySlice(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).WithArgs("ghost@mail.com").WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.Find(context.Background(), models.UserCriteria{Email: "ghost@mail.com"})
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestFind_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findQ).WillReturnError(errors.New("db err"))

	_, err := repo.Find(context.Background(), models.UserCriteria{})
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestRetrieve(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:  "found",
			setup: func(m sqlmock.Sqlmock) { m.ExpectQuery(retrieveQ).WithArgs("u-1").WillReturnRows(janeRow()) },
		},
		{
			name:    "no rows",
			setup:   func(m sqlmock.Sqlmock) { m.ExpectQuery(retrieveQ).WithArgs("u-1").WillReturnError(sql.ErrNoRows) },
			wantErr: common.ErrorNotFound,
		},
		{
			name: "malformed uuid",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(retrieveQ).WithArgs("u-1").WillReturnError(&pgconn.PgError{Code: "22P02"})
			},
			wantErr: common.ErrorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.setup(mock)

			got, err := repo.Retrieve(context.Background(), "u-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || got.Name != "Jane" {
				t.Fatalf("Retrieve = %+v, %v", got, err)
			}
		})
	}
}

func TestUpdate_PartialArgs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	surname := "Roe"
	fav := []string{"d1"}
	mock.ExpectQuery(updateQ).
		WithArgs("u-1", nil, "Roe", nil, nil, `["d1"]`).
		WillReturnRows(janeRow())

	if _, err := repo.Update(context.Background(), "u-1", models.UserUpdate{Surname: &surname, Favorites: &fav}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate_Errors(t *testing.T) {
	email := "taken@mail.com"

	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	mock.ExpectQuery(updateQ).WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err := repo.Update(context.Background(), "u-1", models.UserUpdate{Email: &email})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}

	mock.ExpectQuery(updateQ).WillReturnError(sql.ErrNoRows)
	_, err = repo.Update(context.Background(), "u-2", models.UserUpdate{Email: &email})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(deleteQ).WithArgs("u-2").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "u-2"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}

	mock.ExpectExec(deleteQ).WithArgs("u-3").WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))
	if err := repo.Delete(context.Background(), "u-3"); err == nil || !regexp.MustCompile(`rows affected error: .*rows-err`).MatchString(err.Error()) {
		t.Fatalf("expected rows affected error, got %v", err)
	}
}

func TestToggleFavorite_SingleStatement(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(toggleQ).
		WithArgs("u-1", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(true))

	on, err := repo.ToggleFavorite(context.Background(), "u-1", "d1")
	if err != nil {
		t.Fatalf("ToggleFavorite error: %v", err)
	}
	if !on {
		t.Fatalf("want favorite on")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleFavorite_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(toggleQ).WithArgs("u-x", "d1").WillReturnError(sql.ErrNoRows)

	_, err := repo.ToggleFavorite(context.Background(), "u-x", "d1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
