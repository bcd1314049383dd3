package rsvp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// SetOwn godoc
// @Summary      RSVP to an occurrence
// @Description  Athletes only; upserts the caller's own attendance intent.
// @Tags         rsvp
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        occurrenceID path int true "Occurrence ID"
// @Param        request body SetRSVPRequest true "Status payload"
// @Success      200 {object} RSVP
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /occurrences/{occurrenceID}/rsvp [put]
func (h *Handler) SetOwn(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	role, _ := auth.GetUserRole(c)
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	occurrenceID, err := strconv.Atoi(c.Param("occurrenceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid occurrence ID"})
		return
	}

	var req SetRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rsvp, err := h.service.SetOwn(c.Request.Context(), userID, role, gymID, occurrenceID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrAthletesOnly):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrOccurrenceNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Occurrence not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to record RSVP"})
		}
		return
	}

	c.JSON(http.StatusOK, rsvp)
}

// Override godoc
// @Summary      Override a member's RSVP
// @Description  Staff-only; the acting staff member is stamped on the row.
// @Tags         rsvp
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        occurrenceID path int true "Occurrence ID"
// @Param        request body OverrideRSVPRequest true "Target user and status"
// @Success      200 {object} RSVP
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /occurrences/{occurrenceID}/rsvp/override [put]
func (h *Handler) Override(c *gin.Context) {
	staffID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	occurrenceID, err := strconv.Atoi(c.Param("occurrenceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid occurrence ID"})
		return
	}

	var req OverrideRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rsvp, err := h.service.Override(c.Request.Context(), staffID, gymID, req.UserID, occurrenceID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotInGym):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		case errors.Is(err, ErrOccurrenceNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Occurrence not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to record RSVP"})
		}
		return
	}

	c.JSON(http.StatusOK, rsvp)
}

// ListByOccurrence godoc
// @Summary      List RSVPs for an occurrence
// @Description  Staff-only attendance sheet.
// @Tags         rsvp
// @Security     BearerAuth
// @Produce      json
// @Param        occurrenceID path int true "Occurrence ID"
// @Success      200 {array} RSVPWithUser
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /occurrences/{occurrenceID}/rsvps [get]
func (h *Handler) ListByOccurrence(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	occurrenceID, err := strconv.Atoi(c.Param("occurrenceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid occurrence ID"})
		return
	}

	rsvps, err := h.service.ListByOccurrence(c.Request.Context(), gymID, occurrenceID)
	if err != nil {
		if errors.Is(err, ErrOccurrenceNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Occurrence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch RSVPs"})
		return
	}

	c.JSON(http.StatusOK, rsvps)
}
