package blog

import "time"

type Post struct {
	ID         int       `db:"id" json:"id"`
	GymID      int       `db:"gym_id" json:"gym_id"`
	AuthorID   int       `db:"author_id" json:"author_id"`
	Title      string    `db:"title" json:"title"`
	Body       string    `db:"body" json:"body"`
	CoverURL   *string   `db:"cover_url" json:"cover_url,omitempty"`
	AuthorName string    `db:"author_name" json:"author_name,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePostRequest struct {
	Title    string  `json:"title" binding:"required,min=1,max=200"`
	Body     string  `json:"body" binding:"required"`
	CoverURL *string `json:"cover_url" binding:"omitempty,url"`
}

type UpdatePostRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=200"`
	Body     *string `json:"body"`
	CoverURL *string `json:"cover_url" binding:"omitempty,url"`
}
