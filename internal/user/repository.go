package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"gymhub/internal/db"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, alternate_email, password_hash, role, gym_id, onboarded, created_at`

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns + `
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, name, email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) CreateInvited(ctx context.Context, name, email, passwordHash, role string, gymID int) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, gym_id, onboarded)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING ` + userColumns + `
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, name, email, passwordHash, role, gymID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

// UpdateProfile patches only the provided fields. An empty alternate email
// clears the column, so notifications fall back to the login address.
func (r *repository) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    alternate_email = CASE
		        WHEN $3::text = '' THEN NULL
		        ELSE COALESCE($3::text, alternate_email)
		    END
		WHERE id = $1
		RETURNING ` + userColumns + `
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, userID, req.Name, req.AlternateEmail)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE gym_id = $1
		ORDER BY role, name
	`

	var users []User
	err := r.db.SelectContext(ctx, &users, query, gymID)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *repository) UpdateRole(ctx context.Context, userID int, role string) error {
	query := `UPDATE users SET role = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, role)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *repository) CountOwners(ctx context.Context, gymID int) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE gym_id = $1 AND role = 'owner'`

	var count int
	err := r.db.GetContext(ctx, &count, query, gymID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) SetPassword(ctx context.Context, userID int, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *repository) SetOnboarded(ctx context.Context, userID int) error {
	query := `UPDATE users SET onboarded = true WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *repository) GymName(ctx context.Context, gymID int) (string, error) {
	query := `SELECT name FROM gyms WHERE id = $1`

	var name string
	err := r.db.GetContext(ctx, &name, query, gymID)
	if err != nil {
		return "", err
	}

	return name, nil
}

func (r *repository) CreateResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, token, userID, expiresAt)
	return err
}

// ConsumeResetToken deletes the token row and returns its user. A token can
// only be redeemed once.
func (r *repository) ConsumeResetToken(ctx context.Context, token string) (int, error) {
	query := `
		DELETE FROM password_reset_tokens
		WHERE token = $1 AND expires_at > NOW()
		RETURNING user_id
	`

	var userID int
	err := r.db.GetContext(ctx, &userID, query, token)
	if err == sql.ErrNoRows {
		return 0, ErrResetTokenInvalid
	}
	if err != nil {
		return 0, err
	}

	return userID, nil
}
