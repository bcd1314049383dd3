package gym

import "time"

type Gym struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Location     string    `db:"location" json:"location"`
	LogoURL      *string   `db:"logo_url" json:"logo_url,omitempty"`
	PrimaryColor *string   `db:"primary_color" json:"primary_color,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CreateGymRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

type UpdateBrandingRequest struct {
	LogoURL      *string `json:"logo_url"`
	PrimaryColor *string `json:"primary_color"`
}

type OnboardResponse struct {
	Gym          Gym    `json:"gym"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
