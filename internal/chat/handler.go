package chat

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/logger"
	"gymhub/internal/metrics"
)

const historyLimit = 100

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is token-authenticated; browser origin adds nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	repo      Repository
	hub       *Hub
	jwtSecret string
}

func NewHandler(repo Repository, hub *Hub, jwtSecret string) *Handler {
	return &Handler{
		repo:      repo,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// CreateChannel godoc
// @Summary      Create a chat channel
// @Tags         chat
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateChannelRequest true "Channel payload"
// @Success      201 {object} Channel
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /channels [post]
func (h *Handler) CreateChannel(c *gin.Context) {
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

	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	channel := &Channel{
		GymID:     gymID,
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: userID,
	}
	if err := h.repo.CreateChannel(c.Request.Context(), channel); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create channel"})
		return
	}

	c.JSON(http.StatusCreated, channel)
}

// ListChannels godoc
// @Summary      List the gym's chat channels
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Channel
// @Failure      403 {object} api.ErrorResponse
// @Router       /channels [get]
func (h *Handler) ListChannels(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	channels, err := h.repo.ListChannels(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch channels"})
		return
	}

	if channels == nil {
		channels = []Channel{}
	}
	c.JSON(http.StatusOK, channels)
}

// DeleteChannel godoc
// @Summary      Delete a chat channel
// @Description  Staff-only; open websocket connections on the channel are dropped.
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Channel ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /channels/{id} [delete]
func (h *Handler) DeleteChannel(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid channel ID"})
		return
	}

	if err := h.repo.DeleteChannel(c.Request.Context(), gymID, id); err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Channel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete channel"})
		return
	}

	h.hub.CloseChannel(id)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Channel deleted"})
}

// History godoc
// @Summary      Channel message history
// @Tags         chat
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Channel ID"
// @Success      200 {array} Message
// @Failure      404 {object} api.ErrorResponse
// @Router       /channels/{id}/messages [get]
func (h *Handler) History(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid channel ID"})
		return
	}

	if _, err := h.repo.GetChannelByID(c.Request.Context(), gymID, id); err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Channel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch channel"})
		return
	}

	messages, err := h.repo.ListMessages(c.Request.Context(), id, historyLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch messages"})
		return
	}

	if messages == nil {
		messages = []Message{}
	}
	c.JSON(http.StatusOK, messages)
}

// ServeWS upgrades the connection and joins the caller to a channel room.
// Browsers cannot set an Authorization header on a websocket handshake, so
// the JWT arrives as a query parameter instead.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Missing token"})
		return
	}

	claims, err := auth.ValidateToken(token, h.jwtSecret)
	if err != nil || claims.TokenType != "access" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid or expired token"})
		return
	}
	if claims.GymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	channelID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid channel ID"})
		return
	}

	channel, err := h.repo.GetChannelByID(c.Request.Context(), claims.GymID, channelID)
	if err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Channel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch channel"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("Chat: websocket upgrade failed: %v", err)
		return
	}

	h.hub.Join(channel.ID, conn, claims.UserID)
	defer func() {
		h.hub.Leave(channel.ID, conn)
		conn.Close()
	}()

	h.readLoop(conn, channel.ID, claims.UserID)
}

func (h *Handler) readLoop(conn *websocket.Conn, channelID, userID int) {
	for {
		var in inbound
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Errorf("Chat: read on channel %d failed: %v", channelID, err)
			}
			return
		}

		content := strings.TrimSpace(in.Content)
		if content == "" {
			continue
		}

		msg := &Message{
			ChannelID: channelID,
			UserID:    userID,
			Content:   content,
		}
		// The socket outlives the upgrade request, so the request context
		// cannot be used here.
		if err := h.repo.CreateMessage(context.Background(), msg); err != nil {
			logger.Errorf("Chat: failed to persist message from user %d: %v", userID, err)
			continue
		}

		metrics.ChatMessagesTotal.Inc()
		h.hub.BroadcastMessage(channelID, *msg)
	}
}
