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

func setupSuperAdminRouter(handler *SuperAdminHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users", handler.Users)
	r.GET("/pending", handler.PendingAdmins)
	r.PUT("/approve/:id", handler.Approve)
	r.GET("/residents", handler.Residents)
	return r
}

func TestApproveAccountVerifiesAndNotifies(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	publisher := new(mocks.PublisherMock)
	handler := NewSuperAdminHandler(userRepo, newTestEmitter(publisher))
	router := setupSuperAdminRouter(handler)

	userRepo.On("GetByID", mock.Anything, 3).
		Return(models.User{ID: 3, Email: "admin@x.io", Role: models.RoleAdmin}, nil).Once()
	userRepo.On("SetVerified", mock.Anything, 3).
		Return(models.User{ID: 3, Email: "admin@x.io", Role: models.RoleAdmin, Verified: true}, nil).Once()
	publisher.On("Publish", mock.Anything, notify.RouteAccount, mock.MatchedBy(func(event any) bool {
		env, ok := event.(notify.Envelope)
		return ok && env.EventType == "account.approved" && env.Recipients[0] == "admin@x.io"
	})).Return(nil).Once()

	body := bytes.NewBufferString(`{"action":"approve"}`)
	req := httptest.NewRequest(http.MethodPut, "/approve/3", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRejectAccountDeletesAndNotifies(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	publisher := new(mocks.PublisherMock)
	handler := NewSuperAdminHandler(userRepo, newTestEmitter(publisher))
	router := setupSuperAdminRouter(handler)

	userRepo.On("GetByID", mock.Anything, 4).
		Return(models.User{ID: 4, Email: "reject@x.io"}, nil).Once()
	userRepo.On("DeleteUser", mock.Anything, 4).Return(nil).Once()
	publisher.On("Publish", mock.Anything, notify.RouteAccount, mock.MatchedBy(func(event any) bool {
		env, ok := event.(notify.Envelope)
		return ok && env.EventType == "account.rejected"
	})).Return(nil).Once()

	body := bytes.NewBufferString(`{"action":"reject"}`)
	req := httptest.NewRequest(http.MethodPut, "/approve/4", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestApproveUnknownAccount(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewSuperAdminHandler(userRepo, nil)
	router := setupSuperAdminRouter(handler)

	userRepo.On("GetByID", mock.Anything, 404).
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"action":"approve"}`)
	req := httptest.NewRequest(http.MethodPut, "/approve/404", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApproveRejectsUnknownAction(t *testing.T) {
	handler := NewSuperAdminHandler(new(mocks.UserRepositoryMock), nil)
	router := setupSuperAdminRouter(handler)

	body := bytes.NewBufferString(`{"action":"banish"}`)
	req := httptest.NewRequest(http.MethodPut, "/approve/3", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPendingAdminsFiltersByRole(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewSuperAdminHandler(userRepo, nil)
	router := setupSuperAdminRouter(handler)

	userRepo.On("ListPending", mock.Anything, models.RoleAdmin).
		Return([]models.User{{ID: 5, Role: models.RoleAdmin}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}
