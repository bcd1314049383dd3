package reminder

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
)

type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{
		dispatcher: dispatcher,
	}
}

// RunNow godoc
// @Summary      Run the reminder dispatcher
// @Description  Staff-only manual kick; safe to overlap with the background ticker.
// @Tags         reminders
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Result
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/reminders/run [post]
func (h *Handler) RunNow(c *gin.Context) {
	results, err := h.dispatcher.Dispatch(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Dispatch failed"})
		return
	}

	if results == nil {
		results = []Result{}
	}
	c.JSON(http.StatusOK, results)
}

// SendManual godoc
// @Summary      Send a manual reminder for one occurrence
// @Description  Staff-only; always sends, bypassing the at-most-once log.
// @Tags         reminders
// @Security     BearerAuth
// @Produce      json
// @Param        occurrenceID path int true "Occurrence ID"
// @Success      200 {array} Result
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /occurrences/{occurrenceID}/remind [post]
func (h *Handler) SendManual(c *gin.Context) {
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

	results, err := h.dispatcher.SendManual(c.Request.Context(), gymID, occurrenceID)
	if err != nil {
		if errors.Is(err, ErrOccurrenceNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Occurrence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to send reminders"})
		return
	}

	if results == nil {
		results = []Result{}
	}
	c.JSON(http.StatusOK, results)
}
