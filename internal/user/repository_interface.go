package user

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*User, error)
	CreateInvited(ctx context.Context, name, email, passwordHash, role string, gymID int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListByGym(ctx context.Context, gymID int) ([]User, error)
	UpdateRole(ctx context.Context, userID int, role string) error
	CountOwners(ctx context.Context, gymID int) (int, error)
	SetPassword(ctx context.Context, userID int, passwordHash string) error
	SetOnboarded(ctx context.Context, userID int) error
	GymName(ctx context.Context, gymID int) (string, error)
	CreateResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token string) (int, error)
}
