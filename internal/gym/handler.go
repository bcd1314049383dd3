package gym

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
)

type Handler struct {
	service   Service
	repo      Repository
	jwtSecret string
}

func NewHandler(service Service, repo Repository, jwtSecret string) *Handler {
	return &Handler{
		service:   service,
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// Onboard godoc
// @Summary      Create a gym
// @Description  Creates a gym and promotes the caller to owner. Returns fresh tokens carrying the new role and tenant.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateGymRequest true "Gym payload"
// @Success      201 {object} OnboardResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gyms [post]
func (h *Handler) Onboard(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	gym, err := h.service.Onboard(ctx, userID, req)
	if err != nil {
		if errors.Is(err, ErrAlreadyInGym) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "You already belong to a gym"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create gym"})
		return
	}

	// Old tokens still carry the pre-onboarding role; hand out fresh ones.
	email, err := h.repo.UserIdentity(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load user"})
		return
	}

	accessToken, refreshToken, err := auth.GenerateTokens(userID, email, auth.RoleOwner, gym.ID, h.jwtSecret, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to generate tokens"})
		return
	}

	c.JSON(http.StatusCreated, OnboardResponse{
		Gym:          *gym,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// GetMine godoc
// @Summary      Get my gym
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} Gym
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /gym [get]
func (h *Handler) GetMine(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	gym, err := h.service.GetByID(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		return
	}

	c.JSON(http.StatusOK, gym)
}

// UpdateBranding godoc
// @Summary      Update gym branding
// @Description  Owner-only: logo and primary color.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body UpdateBrandingRequest true "Branding fields"
// @Success      200 {object} Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /gym/branding [patch]
func (h *Handler) UpdateBranding(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	var req UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	gym, err := h.service.UpdateBranding(c.Request.Context(), gymID, req)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		return
	}

	c.JSON(http.StatusOK, gym)
}
