package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glimpse/internal/models"
	"glimpse/internal/service"
	"glimpse/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Feed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) LikedBy(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Like(ctx context.Context, postID, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockPostRepository) Unlike(ctx context.Context, postID, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockPostRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) HasLiked(ctx context.Context, postID, viewerID uint) (bool, error) {
	args := m.Called(ctx, postID, viewerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) OwnerStats(ctx context.Context, userID uint) (*models.OwnerStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OwnerStats), args.Error(1)
}

func (m *MockPostRepository) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]*models.Post, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Purge(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newPostTestApp(t *testing.T, mockRepo *MockPostRepository) *fiber.App {
	t.Helper()

	blobs, err := storage.NewDiskStore(t.TempDir())
	assert.NoError(t, err)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})

	s := &Server{}
	s.postService = service.NewPostService(mockRepo, blobs, nil)

	posts := app.Group("/posts")
	posts.Post("/", s.CreatePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/like/toggle", s.ToggleLike)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)
	return app
}

// pngBytes is a minimal payload http.DetectContentType recognizes as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n0000000000")

func newUploadRequest(t *testing.T, caption string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("media", "photo.png")
	assert.NoError(t, err)
	_, err = part.Write(pngBytes)
	assert.NoError(t, err)
	if caption != "" {
		assert.NoError(t, writer.WriteField("caption", caption))
	}
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCreatePostHandler(t *testing.T) {
	mockRepo := new(MockPostRepository)
	app := newPostTestApp(t, mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.UserID == 1 && p.MediaType == models.MediaTypeImage && p.Caption == "first light"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Post).ID = 42
	}).Return(nil)
	mockRepo.On("GetByID", mock.Anything, uint(42), uint(1)).
		Return(&models.Post{ID: 42, UserID: 1, Caption: "first light"}, nil)

	resp, _ := app.Test(newUploadRequest(t, "first light"))
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, uint(42), post.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreatePostHandlerRequiresFile(t *testing.T) {
	mockRepo := new(MockPostRepository)
	app := newPostTestApp(t, mockRepo)

	req := httptest.NewRequest(http.MethodPost, "/posts/", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeletePostHandlerForbidden(t *testing.T) {
	mockRepo := new(MockPostRepository)
	app := newPostTestApp(t, mockRepo)

	mockRepo.On("GetByID", mock.Anything, uint(5), uint(1)).
		Return(&models.Post{ID: 5, UserID: 2}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/posts/5", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeletePostHandlerNotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	app := newPostTestApp(t, mockRepo)

	mockRepo.On("GetByID", mock.Anything, uint(404), uint(1)).
		Return(nil, models.NewNotFoundError("Post", uint(404)))

	req := httptest.NewRequest(http.MethodDelete, "/posts/404", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeletePostHandlerSuccess(t *testing.T) {
	mockRepo := new(MockPostRepository)
	app := newPostTestApp(t, mockRepo)

	mockRepo.On("GetByID", mock.Anything, uint(5), uint(1)).
		Return(&models.Post{ID: 5, UserID: 1, MediaPath: "gone.png"}, nil)
	mockRepo.On("Delete", mock.Anything, uint(5)).Return(nil)
	mockRepo.On("Purge", mock.Anything, uint(5)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/posts/5", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestLikePostHandler(t *testing.T) {
	mockRepo := new(MockPostRepository)
	app := newPostTestApp(t, mockRepo)

	mockRepo.On("Like", mock.Anything, uint(7), uint(1)).Return(nil)
	mockRepo.On("GetByID", mock.Anything, uint(7), uint(1)).
		Return(&models.Post{ID: 7, LikesCount: 1, Liked: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/posts/7/like", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.Post
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.True(t, post.Liked)
	assert.Equal(t, 1, post.LikesCount)
}

func TestLikePostHandlerMissingPost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	app := newPostTestApp(t, mockRepo)

	mockRepo.On("Like", mock.Anything, uint(404), uint(1)).
		Return(models.NewNotFoundError("Post", uint(404)))

	req := httptest.NewRequest(http.MethodPost, "/posts/404/like", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPostHandlerRejectsBadID(t *testing.T) {
	mockRepo := new(MockPostRepository)
	app := newPostTestApp(t, mockRepo)

	req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}
