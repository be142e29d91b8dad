package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

const noteColumns = `id, author_id, COALESCE(parent_id::text, ''), text, private, date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	n := &models.Note{}
	if err := row.Scan(&n.ID, &n.AuthorID, &n.ParentID, &n.Text, &n.Private, &n.Date); err != nil {
		return nil, err
	}
	return n, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	date := note.Date
	if date.IsZero() {
		date = r.now().UTC()
	}
	var parent any
	if note.ParentID != "" {
		parent = note.ParentID
	}

	query :=
		`INSERT INTO notes (author_id, parent_id, text, private, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + noteColumns

	n, err := scanNote(r.db.QueryRowContext(ctx, query, note.AuthorID, parent, note.Text, note.Private, date))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Find(ctx context.Context, c models.NoteCriteria) ([]*models.Note, error) {
	query :=
		`SELECT ` + noteColumns + ` FROM notes
		 WHERE ($1 = '' OR author_id::text = $1)
		   AND ($2::boolean IS NULL OR private = $2)
		 ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, c.AuthorID, nullable(c.Private))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) Retrieve(ctx context.Context, id string) (*models.Note, error) {
	n, err := scanNote(r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return n, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.NoteUpdate) (*models.Note, error) {
	query :=
		`UPDATE notes SET
		   text = COALESCE($2, text),
		   private = COALESCE($3, private)
		 WHERE id = $1
		 RETURNING ` + noteColumns

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id, nullable(upd.Text), nullable(upd.Private)))
	if err != nil {
		return nil, mapError(err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
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

func (r *PostgresRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE author_id::text = $1`, authorID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
