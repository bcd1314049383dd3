package notice

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
)

// Handler works against the repository directly; the notice board has no
// business rules beyond tenancy, which the queries enforce.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{
		repo: repo,
	}
}

// Create godoc
// @Summary      Post a notice
// @Tags         notices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateNoticeRequest true "Notice payload"
// @Success      201 {object} Notice
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /notices [post]
func (h *Handler) Create(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	var req CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	notice := &Notice{
		GymID:    gymID,
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
		Pinned:   req.Pinned,
	}
	if err := h.repo.Create(c.Request.Context(), notice); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create notice"})
		return
	}

	c.JSON(http.StatusCreated, notice)
}

// List godoc
// @Summary      List the gym's notices
// @Tags         notices
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Notice
// @Failure      403 {object} api.ErrorResponse
// @Router       /notices [get]
func (h *Handler) List(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	notices, err := h.repo.ListByGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch notices"})
		return
	}

	if notices == nil {
		notices = []Notice{}
	}
	c.JSON(http.StatusOK, notices)
}

// Get godoc
// @Summary      Get one notice
// @Tags         notices
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Notice ID"
// @Success      200 {object} Notice
// @Failure      404 {object} api.ErrorResponse
// @Router       /notices/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid notice ID"})
		return
	}

	notice, err := h.repo.GetByID(c.Request.Context(), gymID, id)
	if err != nil {
		if errors.Is(err, ErrNoticeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Notice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch notice"})
		return
	}

	c.JSON(http.StatusOK, notice)
}

// Update godoc
// @Summary      Update a notice
// @Tags         notices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Notice ID"
// @Param        request body UpdateNoticeRequest true "Fields to change"
// @Success      200 {object} Notice
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /notices/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid notice ID"})
		return
	}

	var req UpdateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	notice, err := h.repo.Update(c.Request.Context(), gymID, id, req)
	if err != nil {
		if errors.Is(err, ErrNoticeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Notice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update notice"})
		return
	}

	c.JSON(http.StatusOK, notice)
}

// Delete godoc
// @Summary      Delete a notice
// @Tags         notices
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Notice ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /notices/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid notice ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), gymID, id); err != nil {
		if errors.Is(err, ErrNoticeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Notice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete notice"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Notice deleted"})
}
