package gym

import "context"

type Repository interface {
	CreateGym(ctx context.Context, name, location string) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	UpdateBranding(ctx context.Context, id int, logoURL, primaryColor *string) (*Gym, error)
	PromoteToOwner(ctx context.Context, userID, gymID int) error
	UserGymID(ctx context.Context, userID int) (*int, error)
	UserIdentity(ctx context.Context, userID int) (email string, err error)
}
