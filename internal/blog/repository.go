package blog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymhub/internal/db"
)

var ErrPostNotFound = errors.New("post not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const postColumns = `p.id, p.gym_id, p.author_id, p.title, p.body, p.cover_url, p.created_at, p.updated_at`

func (r *repository) Create(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO blog_posts (gym_id, author_id, title, body, cover_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		post.GymID, post.AuthorID, post.Title, post.Body, post.CoverURL,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, gymID, id int) (*Post, error) {
	query := `
		SELECT ` + postColumns + `, u.name AS author_name
		FROM blog_posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1 AND p.gym_id = $2
	`

	var post Post
	err := r.db.GetContext(ctx, &post, query, id, gymID)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID, limit, offset int) ([]Post, error) {
	query := `
		SELECT ` + postColumns + `, u.name AS author_name
		FROM blog_posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.gym_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var posts []Post
	err := db.Retry(ctx, 3, func() error {
		return r.db.SelectContext(ctx, &posts, query, gymID, limit, offset)
	})
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *repository) Update(ctx context.Context, gymID, id int, req UpdatePostRequest) (*Post, error) {
	query := `
		UPDATE blog_posts p
		SET title = COALESCE($1, title),
		    body = COALESCE($2, body),
		    cover_url = COALESCE($3, cover_url),
		    updated_at = NOW()
		WHERE p.id = $4 AND p.gym_id = $5
		RETURNING ` + postColumns

	var post Post
	err := r.db.GetContext(ctx, &post, query, req.Title, req.Body, req.CoverURL, id, gymID)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *repository) Delete(ctx context.Context, gymID, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1 AND gym_id = $2`, id, gymID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}
