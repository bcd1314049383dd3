package gym

import (
	"context"
	"errors"
)

var ErrAlreadyInGym = errors.New("user already belongs to a gym")

type Service interface {
	Onboard(ctx context.Context, userID int, req CreateGymRequest) (*Gym, error)
	GetByID(ctx context.Context, id int) (*Gym, error)
	UpdateBranding(ctx context.Context, gymID int, req UpdateBrandingRequest) (*Gym, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

// Onboard creates the tenant and makes the caller its first owner.
func (s *service) Onboard(ctx context.Context, userID int, req CreateGymRequest) (*Gym, error) {
	currentGym, err := s.repo.UserGymID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if currentGym != nil {
		return nil, ErrAlreadyInGym
	}

	gym, err := s.repo.CreateGym(ctx, req.Name, req.Location)
	if err != nil {
		return nil, err
	}

	if err := s.repo.PromoteToOwner(ctx, userID, gym.ID); err != nil {
		return nil, err
	}

	return gym, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Gym, error) {
	gym, err := s.repo.GetGymByID(ctx, id)
	if err != nil {
		return nil, ErrGymNotFound
	}
	return gym, nil
}

func (s *service) UpdateBranding(ctx context.Context, gymID int, req UpdateBrandingRequest) (*Gym, error) {
	gym, err := s.repo.UpdateBranding(ctx, gymID, req.LogoURL, req.PrimaryColor)
	if err != nil {
		return nil, ErrGymNotFound
	}
	return gym, nil
}
