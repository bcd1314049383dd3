package blog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gymhub/internal/api"
	"gymhub/internal/auth"
)

const defaultPageSize = 20

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{
		repo: repo,
	}
}

// Create godoc
// @Summary      Publish a blog post
// @Tags         blog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreatePostRequest true "Post payload"
// @Success      201 {object} Post
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /blog [post]
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

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	post := &Post{
		GymID:    gymID,
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
		CoverURL: req.CoverURL,
	}
	if err := h.repo.Create(c.Request.Context(), post); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List godoc
// @Summary      List the gym's blog posts
// @Tags         blog
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "Page size" default(20)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {array} Post
// @Failure      403 {object} api.ErrorResponse
// @Router       /blog [get]
func (h *Handler) List(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 || limit > 100 {
		limit = defaultPageSize
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	posts, err := h.repo.ListByGym(c.Request.Context(), gymID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch posts"})
		return
	}

	if posts == nil {
		posts = []Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// Get godoc
// @Summary      Get one blog post
// @Tags         blog
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Post ID"
// @Success      200 {object} Post
// @Failure      404 {object} api.ErrorResponse
// @Router       /blog/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid post ID"})
		return
	}

	post, err := h.repo.GetByID(c.Request.Context(), gymID, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary      Update a blog post
// @Tags         blog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Post ID"
// @Param        request body UpdatePostRequest true "Fields to change"
// @Success      200 {object} Post
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /blog/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid post ID"})
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	post, err := h.repo.Update(c.Request.Context(), gymID, id, req)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary      Delete a blog post
// @Tags         blog
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Post ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /blog/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	gymID, exists := auth.GetGymID(c)
	if !exists || gymID == 0 {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "No gym assigned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid post ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), gymID, id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Post deleted"})
}
