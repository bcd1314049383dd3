package notice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymhub/internal/db"
)

var ErrNoticeNotFound = errors.New("notice not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const noticeColumns = `id, gym_id, author_id, title, body, pinned, created_at, updated_at`

func (r *repository) Create(ctx context.Context, notice *Notice) error {
	query := `
		INSERT INTO notices (gym_id, author_id, title, body, pinned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		notice.GymID, notice.AuthorID, notice.Title, notice.Body, notice.Pinned,
	).Scan(&notice.ID, &notice.CreatedAt, &notice.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, gymID, id int) (*Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1 AND gym_id = $2`

	var notice Notice
	err := r.db.GetContext(ctx, &notice, query, id, gymID)
	if err == sql.ErrNoRows {
		return nil, ErrNoticeNotFound
	}
	if err != nil {
		return nil, err
	}

	return &notice, nil
}

// ListByGym returns pinned notices first, then newest first.
func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Notice, error) {
	query := `
		SELECT ` + noticeColumns + `
		FROM notices
		WHERE gym_id = $1
		ORDER BY pinned DESC, created_at DESC
	`

	var notices []Notice
	err := db.Retry(ctx, 3, func() error {
		return r.db.SelectContext(ctx, &notices, query, gymID)
	})
	if err != nil {
		return nil, err
	}

	return notices, nil
}

func (r *repository) Update(ctx context.Context, gymID, id int, req UpdateNoticeRequest) (*Notice, error) {
	query := `
		UPDATE notices
		SET title = COALESCE($1, title),
		    body = COALESCE($2, body),
		    pinned = COALESCE($3, pinned),
		    updated_at = NOW()
		WHERE id = $4 AND gym_id = $5
		RETURNING ` + noticeColumns

	var notice Notice
	err := r.db.GetContext(ctx, &notice, query, req.Title, req.Body, req.Pinned, id, gymID)
	if err == sql.ErrNoRows {
		return nil, ErrNoticeNotFound
	}
	if err != nil {
		return nil, err
	}

	return &notice, nil
}

func (r *repository) Delete(ctx context.Context, gymID, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1 AND gym_id = $2`, id, gymID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoticeNotFound
	}

	return nil
}
