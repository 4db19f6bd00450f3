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
	"community-service/internal/repositories"
)

func setupEventRouter(handler *EventHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/events", handler.Create)
	r.GET("/events", handler.List)
	r.POST("/events/:id/join", handler.Join)
	return r
}

func TestCreateEventSuccess(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo)
	router := setupEventRouter(handler, 1)

	eventRepo.On("CreateEvent", mock.Anything, 1, "Block Party", "bring snacks").
		Return(models.Event{ID: 3, Name: "Block Party", AdminID: 1}, nil).Once()

	body := bytes.NewBufferString(`{"name":"Block Party","description":"bring snacks"}`)
	req := httptest.NewRequest(http.MethodPost, "/events", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestJoinEventRecordsAnswer(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo)
	router := setupEventRouter(handler, 2)

	eventRepo.On("SetAttendance", mock.Anything, 3, 2, false).Return(nil).Once()

	body := bytes.NewBufferString(`{"attending":false}`)
	req := httptest.NewRequest(http.MethodPost, "/events/3/join", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestJoinMissingEvent(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo)
	router := setupEventRouter(handler, 2)

	eventRepo.On("SetAttendance", mock.Anything, 404, 2, true).
		Return(repositories.ErrEventNotFound).Once()

	body := bytes.NewBufferString(`{"attending":true}`)
	req := httptest.NewRequest(http.MethodPost, "/events/404/join", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	eventRepo.AssertExpectations(t)
}

func TestListEvents(t *testing.T) {
	eventRepo := new(mocks.EventRepositoryMock)
	handler := NewEventHandler(eventRepo)
	router := setupEventRouter(handler, 1)

	eventRepo.On("ListEvents", mock.Anything).
		Return([]models.Event{{ID: 3, Name: "Block Party"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	eventRepo.AssertExpectations(t)
}
