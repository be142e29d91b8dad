package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/goccy/go-json"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, surname, email, password, favorites, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var favorites []byte
	if err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.Password, &favorites, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if len(favorites) > 0 {
		if err := json.Unmarshal(favorites, &u.Favorites); err != nil {
			return nil, fmt.Errorf("decode favorites: %w", err)
		}
	}
	return u, nil
}

func encodeFavorites(f []string) (string, error) {
	if f == nil {
		f = []string{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// mapError turns driver errors into repository errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows), dbx.IsInvalidInput(err):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err):
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	favorites, err := encodeFavorites(user.Favorites)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (name, surname, email, password, favorites)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Name, user.Surname, user.Email, user.Password, favorites))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// the email was taken, nothing was inserted
			return nil, common.ErrorAlreadyExists
		}
		return nil, mapError(err)
	}

	return u, nil
}

func (r *PostgresRepository) Find(ctx context.Context, c models.UserCriteria) ([]*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE ($1 = '' OR email = $1)
		 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, c.Email)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) Retrieve(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	var favorites any
	if upd.Favorites != nil {
		f, err := encodeFavorites(*upd.Favorites)
		if err != nil {
			return nil, err
		}
		favorites = f
	}

	query :=
		`UPDATE users SET
		   name = COALESCE($2, name),
		   surname = COALESCE($3, surname),
		   email = COALESCE($4, email),
		   password = COALESCE($5, password),
		   favorites = COALESCE($6::jsonb, favorites),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id,
		nullable(upd.Name), nullable(upd.Surname), nullable(upd.Email), nullable(upd.Password), favorites))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// ToggleFavorite flips the favorite in one UPDATE, so the row lock taken by
// the statement serialises concurrent toggles.
func (r *PostgresRepository) ToggleFavorite(ctx context.Context, id, favorite string) (bool, error) {
	query :=
		`UPDATE users SET
		   favorites = CASE WHEN favorites ? $2::text
		     THEN favorites - $2::text
		     ELSE favorites || jsonb_build_array($2::text)
		   END,
		   updated_at = now()
		 WHERE id = $1
		 RETURNING favorites ? $2::text`

	var on bool
	if err := r.db.QueryRowContext(ctx, query, id, favorite).Scan(&on); err != nil {
		return false, mapError(err)
	}
	return on, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
