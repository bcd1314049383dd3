package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBlogRepo struct{ mock.Mock }

func (m *MockBlogRepo) Create(ctx context.Context, post *Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockBlogRepo) GetByID(ctx context.Context, gymID, id int) (*Post, error) {
	args := m.Called(ctx, gymID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockBlogRepo) ListByGym(ctx context.Context, gymID, limit, offset int) ([]Post, error) {
	args := m.Called(ctx, gymID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Post), args.Error(1)
}

func (m *MockBlogRepo) Update(ctx context.Context, gymID, id int, req UpdatePostRequest) (*Post, error) {
	args := m.Called(ctx, gymID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockBlogRepo) Delete(ctx context.Context, gymID, id int) error {
	return m.Called(ctx, gymID, id).Error(0)
}

func newBlogRouter(repo Repository, gymID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(repo)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", 5)
		c.Set("user_role", "coach")
		c.Set("gym_id", gymID)
	})

	router.POST("/blog", h.Create)
	router.GET("/blog", h.List)
	router.GET("/blog/:id", h.Get)
	router.DELETE("/blog/:id", h.Delete)
	return router
}

func TestHandler_CreatePost(t *testing.T) {
	repo := new(MockBlogRepo)
	router := newBlogRouter(repo, 1)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Post) bool {
		return p.GymID == 1 && p.AuthorID == 5 && p.Title == "Opening week"
	})).Return(nil)

	req := httptest.NewRequest("POST", "/blog", bytes.NewBufferString(`{"title": "Opening week", "body": "We are live."}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestHandler_CreatePost_NoGym(t *testing.T) {
	repo := new(MockBlogRepo)
	router := newBlogRouter(repo, 0)

	req := httptest.NewRequest("POST", "/blog", bytes.NewBufferString(`{"title": "x", "body": "y"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestHandler_CreatePost_BadCoverURL(t *testing.T) {
	repo := new(MockBlogRepo)
	router := newBlogRouter(repo, 1)

	req := httptest.NewRequest("POST", "/blog", bytes.NewBufferString(`{"title": "x", "body": "y", "cover_url": "not a url"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestHandler_ListPosts_ClampsPaging(t *testing.T) {
	repo := new(MockBlogRepo)
	router := newBlogRouter(repo, 1)

	// Out-of-range limit and negative offset fall back to the defaults.
	repo.On("ListByGym", mock.Anything, 1, defaultPageSize, 0).Return([]Post{}, nil)

	req := httptest.NewRequest("GET", "/blog?limit=9999&offset=-3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	repo.AssertExpectations(t)
}

func TestHandler_GetPost_NotFound(t *testing.T) {
	repo := new(MockBlogRepo)
	router := newBlogRouter(repo, 1)

	repo.On("GetByID", mock.Anything, 1, 99).Return(nil, ErrPostNotFound)

	req := httptest.NewRequest("GET", "/blog/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetPost_InvalidID(t *testing.T) {
	repo := new(MockBlogRepo)
	router := newBlogRouter(repo, 1)

	req := httptest.NewRequest("GET", "/blog/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "GetByID")
}

func TestHandler_DeletePost(t *testing.T) {
	repo := new(MockBlogRepo)
	router := newBlogRouter(repo, 1)

	repo.On("Delete", mock.Anything, 1, 2).Return(nil)

	req := httptest.NewRequest("DELETE", "/blog/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Post deleted", resp["message"])
}
