package chat

import "time"

type Channel struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	Name      string    `db:"name" json:"name"`
	CreatedBy int       `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Message struct {
	ID        int       `db:"id" json:"id"`
	ChannelID int       `db:"channel_id" json:"channel_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	UserName  string    `db:"user_name" json:"user_name"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateChannelRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// inbound is what a connected client sends over the socket.
type inbound struct {
	Content string `json:"content"`
}

// envelope wraps everything pushed to connected clients.
type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
