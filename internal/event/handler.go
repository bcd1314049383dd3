package event

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
)

// Default materialization window when the caller gives no bounds.
const defaultWindowDays = 28

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func callerGym(c *gin.Context) (int, bool) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return 0, false
	}
	return gymID, true
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return id, true
}

// CreateEvent godoc
// @Summary      Create event template
// @Description  Staff-only: recurring or one-off event definition.
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateEventRequest true "Event payload"
// @Success      201 {object} Event
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), gymID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidTimeOfDay) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListEvents godoc
// @Summary      List events
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Event
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}

	events, err := h.service.ListEvents(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary      Get event
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        eventID path int true "Event ID"
// @Success      200 {object} Event
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventID")
	if !ok {
		return
	}

	event, err := h.service.GetEvent(c.Request.Context(), gymID, eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary      Update event template
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        eventID path int true "Event ID"
// @Param        request body CreateEventRequest true "Event payload"
// @Success      200 {object} Event
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID} [patch]
func (h *Handler) UpdateEvent(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventID")
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	event, err := h.service.UpdateEvent(c.Request.Context(), gymID, eventID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Event not found"})
		case errors.Is(err, ErrInvalidTimeOfDay):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update event"})
		}
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary      Delete event template
// @Description  Staff-only. Rejected while occurrences exist.
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        eventID path int true "Event ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /events/{eventID} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventID")
	if !ok {
		return
	}

	err := h.service.DeleteEvent(c.Request.Context(), gymID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Event not found"})
		case errors.Is(err, ErrEventHasOccurrences):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete event"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Event deleted"})
}

// ListOccurrences godoc
// @Summary      List occurrences
// @Description  Materializes the recurrence rule over the window and returns the merged set.
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        eventID path  int    true  "Event ID"
// @Param        from    query string false "Window start (YYYY-MM-DD)"
// @Param        to      query string false "Window end (YYYY-MM-DD)"
// @Success      200 {array} Occurrence
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID}/occurrences [get]
func (h *Handler) ListOccurrences(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventID")
	if !ok {
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, defaultWindowDays)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, fromStr, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid from, use YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, toStr, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid to, use YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	occurrences, err := h.service.Occurrences(c.Request.Context(), gymID, eventID, from, to)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch occurrences"})
		return
	}

	c.JSON(http.StatusOK, occurrences)
}

// AddOccurrence godoc
// @Summary      Add custom occurrence
// @Description  Staff-only: adds a date outside the recurrence rule. Colliding dates are rejected.
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        eventID path int true "Event ID"
// @Param        request body AddOccurrenceRequest true "Date payload"
// @Success      201 {object} Occurrence
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /events/{eventID}/occurrences [post]
func (h *Handler) AddOccurrence(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventID")
	if !ok {
		return
	}

	var req AddOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	occ, err := h.service.AddCustomOccurrence(c.Request.Context(), gymID, eventID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Event not found"})
		case errors.Is(err, ErrInvalidDate):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrDuplicateDate):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to add occurrence"})
		}
		return
	}

	c.JSON(http.StatusCreated, occ)
}

// CancelOccurrence godoc
// @Summary      Cancel occurrence
// @Description  Staff-only. Optionally notifies everyone RSVP'd going; send failures are counted, never fatal.
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        occurrenceID path int true "Occurrence ID"
// @Param        request body CancelOccurrenceRequest true "Notify flag"
// @Success      200 {object} CancelOccurrenceResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /occurrences/{occurrenceID}/cancel [post]
func (h *Handler) CancelOccurrence(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}
	occurrenceID, ok := pathID(c, "occurrenceID")
	if !ok {
		return
	}

	var req CancelOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	occ, notified, failed, err := h.service.CancelOccurrence(c.Request.Context(), gymID, occurrenceID, req.Notify)
	if err != nil {
		if errors.Is(err, ErrOccurrenceNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Occurrence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to cancel occurrence"})
		return
	}

	c.JSON(http.StatusOK, CancelOccurrenceResponse{
		Occurrence: *occ,
		Notified:   notified,
		SendFailed: failed,
	})
}

// RestoreOccurrence godoc
// @Summary      Restore canceled occurrence
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        occurrenceID path int true "Occurrence ID"
// @Success      200 {object} Occurrence
// @Failure      404 {object} api.ErrorResponse
// @Router       /occurrences/{occurrenceID}/restore [post]
func (h *Handler) RestoreOccurrence(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}
	occurrenceID, ok := pathID(c, "occurrenceID")
	if !ok {
		return
	}

	occ, err := h.service.RestoreOccurrence(c.Request.Context(), gymID, occurrenceID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Occurrence not found"})
		return
	}

	c.JSON(http.StatusOK, occ)
}

// DeleteOccurrence godoc
// @Summary      Delete custom occurrence
// @Description  Staff-only. Rule-derived occurrences cannot be deleted, only canceled.
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        occurrenceID path int true "Occurrence ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /occurrences/{occurrenceID} [delete]
func (h *Handler) DeleteOccurrence(c *gin.Context) {
	gymID, ok := callerGym(c)
	if !ok {
		return
	}
	occurrenceID, ok := pathID(c, "occurrenceID")
	if !ok {
		return
	}

	err := h.service.DeleteOccurrence(c.Request.Context(), gymID, occurrenceID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOccurrenceNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Occurrence not found"})
		case errors.Is(err, ErrNotCustom):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete occurrence"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Occurrence deleted"})
}
