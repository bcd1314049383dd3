package chat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrChannelNotFound = errors.New("channel not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateChannel(ctx context.Context, channel *Channel) error {
	query := `
		INSERT INTO channels (gym_id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return r.db.QueryRowContext(ctx, query,
		channel.GymID, channel.Name, channel.CreatedBy,
	).Scan(&channel.ID, &channel.CreatedAt)
}

func (r *repository) GetChannelByID(ctx context.Context, gymID, id int) (*Channel, error) {
	query := `
		SELECT id, gym_id, name, created_by, created_at
		FROM channels
		WHERE id = $1 AND gym_id = $2
	`

	var channel Channel
	err := r.db.GetContext(ctx, &channel, query, id, gymID)
	if err == sql.ErrNoRows {
		return nil, ErrChannelNotFound
	}
	if err != nil {
		return nil, err
	}

	return &channel, nil
}

func (r *repository) ListChannels(ctx context.Context, gymID int) ([]Channel, error) {
	query := `
		SELECT id, gym_id, name, created_by, created_at
		FROM channels
		WHERE gym_id = $1
		ORDER BY name
	`

	var channels []Channel
	err := r.db.SelectContext(ctx, &channels, query, gymID)
	if err != nil {
		return nil, err
	}

	return channels, nil
}

// DeleteChannel removes the channel and, via ON DELETE CASCADE, its history.
func (r *repository) DeleteChannel(ctx context.Context, gymID, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id = $1 AND gym_id = $2`, id, gymID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrChannelNotFound
	}

	return nil
}

func (r *repository) CreateMessage(ctx context.Context, message *Message) error {
	query := `
		INSERT INTO messages (channel_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return r.db.QueryRowContext(ctx, query,
		message.ChannelID, message.UserID, message.Content,
	).Scan(&message.ID, &message.CreatedAt)
}

// ListMessages returns the most recent `limit` messages in chronological order.
func (r *repository) ListMessages(ctx context.Context, channelID, limit int) ([]Message, error) {
	query := `
		SELECT m.id, m.channel_id, m.user_id, u.name AS user_name, m.content, m.created_at
		FROM (
			SELECT id, channel_id, user_id, content, created_at
			FROM messages
			WHERE channel_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) m
		JOIN users u ON m.user_id = u.id
		ORDER BY m.created_at
	`

	var messages []Message
	err := r.db.SelectContext(ctx, &messages, query, channelID, limit)
	if err != nil {
		return nil, err
	}

	return messages, nil
}
