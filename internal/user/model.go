package user

import "time"

type User struct {
	ID             int        `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Email          string     `db:"email" json:"email"`
	AlternateEmail *string    `db:"alternate_email" json:"alternate_email,omitempty"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Role           string     `db:"role" json:"role"`
	GymID          *int       `db:"gym_id" json:"gym_id,omitempty"`
	Onboarded      bool       `db:"onboarded" json:"onboarded"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// InviteRequest items are validated one at a time inside the batch, so the
// rules live in validate tags rather than gin binding tags.
type InviteRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=coach athlete"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1"`
	AlternateEmail *string `json:"alternate_email" binding:"omitempty,email"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner coach athlete"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordSetupRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
