package chat

import "context"

type Repository interface {
	CreateChannel(ctx context.Context, channel *Channel) error
	GetChannelByID(ctx context.Context, gymID, id int) (*Channel, error)
	ListChannels(ctx context.Context, gymID int) ([]Channel, error)
	DeleteChannel(ctx context.Context, gymID, id int) error
	CreateMessage(ctx context.Context, message *Message) error
	ListMessages(ctx context.Context, channelID, limit int) ([]Message, error)
}
