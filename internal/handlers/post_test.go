package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"community-service/internal/mocks"
	"community-service/internal/models"
	"community-service/internal/notify"
	"community-service/internal/repositories"
)

func setupPostRouter(handler *PostHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/posts", handler.Create)
	r.GET("/posts", handler.List)
	r.GET("/posts/mine", handler.MyPosts)
	r.POST("/posts/:id/comments", handler.Comment)
	r.PUT("/posts/:id", handler.Update)
	r.DELETE("/posts/:id", handler.Delete)
	return r
}

func TestCreatePostSuccess(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo, new(mocks.UserRepositoryMock), nil)
	router := setupPostRouter(handler, 1)

	postRepo.On("CreatePost", mock.Anything, mock.MatchedBy(func(p models.NewPost) bool {
		return p.UserID == 1 && p.Description == "lost cat" && !p.Priority
	})).Return(models.Post{ID: 3, UserID: 1, Description: "lost cat"}, nil).Once()

	body := bytes.NewBufferString(`{"description":"lost cat"}`)
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	postRepo.AssertExpectations(t)
}

func TestCreatePriorityPostNotifiesEveryone(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	publisher := new(mocks.PublisherMock)
	handler := NewPostHandler(postRepo, userRepo, newTestEmitter(publisher))
	router := setupPostRouter(handler, 1)

	postRepo.On("CreatePost", mock.Anything, mock.Anything).
		Return(models.Post{ID: 4, UserID: 1, Description: "gas leak on 5th", Priority: true}, nil).Once()
	userRepo.On("ListEmails", mock.Anything).Return([]string{"a@x.io", "b@x.io"}, nil).Once()
	publisher.On("Publish", mock.Anything, notify.RoutePost, mock.MatchedBy(func(event any) bool {
		env, ok := event.(notify.Envelope)
		return ok && len(env.Recipients) == 2 && env.Subject == "New High Priority Post"
	})).Return(nil).Once()

	body := bytes.NewBufferString(`{"description":"gas leak on 5th","priority":true}`)
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	postRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpdatePostOnlyAuthor(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo, new(mocks.UserRepositoryMock), nil)
	router := setupPostRouter(handler, 2)

	postRepo.On("GetPost", mock.Anything, 7).
		Return(models.Post{ID: 7, UserID: 1}, nil).Once()

	body := bytes.NewBufferString(`{"description":"edited"}`)
	req := httptest.NewRequest(http.MethodPut, "/posts/7", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	postRepo.AssertExpectations(t)
}

func TestDeletePostSuccess(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo, new(mocks.UserRepositoryMock), nil)
	router := setupPostRouter(handler, 1)

	postRepo.On("GetPost", mock.Anything, 7).Return(models.Post{ID: 7, UserID: 1}, nil).Once()
	postRepo.On("DeletePost", mock.Anything, 7).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/posts/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	postRepo.AssertExpectations(t)
}

func TestCommentOnMissingPost(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo, new(mocks.UserRepositoryMock), nil)
	router := setupPostRouter(handler, 1)

	postRepo.On("AddComment", mock.Anything, 404, 1, "hello").
		Return(models.Post{}, repositories.ErrPostNotFound).Once()

	body := bytes.NewBufferString(`{"text":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/posts/404/comments", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	postRepo.AssertExpectations(t)
}

func TestMyPostsList(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	handler := NewPostHandler(postRepo, new(mocks.UserRepositoryMock), nil)
	router := setupPostRouter(handler, 1)

	postRepo.On("ListPostsByUser", mock.Anything, 1).
		Return([]models.Post{{ID: 1, UserID: 1}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/posts/mine", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	postRepo.AssertExpectations(t)
}
