package gym

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrGymNotFound = errors.New("gym not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, name, location string) (*Gym, error) {
	query := `
		INSERT INTO gyms (name, location)
		VALUES ($1, $2)
		RETURNING id, name, location, logo_url, primary_color, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, name, location)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, name, location, logo_url, primary_color, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) UpdateBranding(ctx context.Context, id int, logoURL, primaryColor *string) (*Gym, error) {
	query := `
		UPDATE gyms
		SET logo_url = COALESCE($2, logo_url),
		    primary_color = COALESCE($3, primary_color)
		WHERE id = $1
		RETURNING id, name, location, logo_url, primary_color, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id, logoURL, primaryColor)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) PromoteToOwner(ctx context.Context, userID, gymID int) error {
	query := `
		UPDATE users
		SET gym_id = $2, role = 'owner', onboarded = true
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, userID, gymID)
	return err
}

func (r *repository) UserGymID(ctx context.Context, userID int) (*int, error) {
	query := `SELECT gym_id FROM users WHERE id = $1`

	var gymID *int
	err := r.db.GetContext(ctx, &gymID, query, userID)
	if err != nil {
		return nil, err
	}

	return gymID, nil
}

func (r *repository) UserIdentity(ctx context.Context, userID int) (string, error) {
	query := `SELECT email FROM users WHERE id = $1`

	var email string
	err := r.db.GetContext(ctx, &email, query, userID)
	if err != nil {
		return "", err
	}

	return email, nil
}
