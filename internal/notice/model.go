package notice

import "time"

type Notice struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	AuthorID  int       `db:"author_id" json:"author_id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Pinned    bool      `db:"pinned" json:"pinned"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateNoticeRequest struct {
	Title  string `json:"title" binding:"required,min=1,max=200"`
	Body   string `json:"body" binding:"required"`
	Pinned bool   `json:"pinned"`
}

type UpdateNoticeRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1,max=200"`
	Body   *string `json:"body"`
	Pinned *bool   `json:"pinned"`
}
