package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-service/internal/auth"
	"community-service/internal/models"
	"community-service/internal/repositories"
)

// AuthHandler manages signup, login and the account directory.
type AuthHandler struct {
	users   repositories.UserRepository
	workers repositories.WorkerRepository
	tokens  *auth.TokenManager
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(users repositories.UserRepository, workers repositories.WorkerRepository, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, workers: workers, tokens: tokens}
}

// Signup creates a new account. Accounts start unverified and must be
// approved before login succeeds.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required,oneof=Resident Worker Admin SuperAdmin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Name, req.Email, hash, req.Role)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup successful. Await admin approval.",
		"token":   token,
		"user":    user,
	})
}

// Login validates credentials and issues a token. Unverified accounts
// are refused.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if !user.Verified {
		c.JSON(http.StatusForbidden, gin.H{"error": "account not verified by admin"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// ListUsers returns verified residents other than the caller, used as
// the directory for starting private chats.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	userID := c.GetInt("userID")
	users, err := h.users.ListResidentsExcept(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// PendingUsers returns unverified accounts awaiting approval.
func (h *AuthHandler) PendingUsers(c *gin.Context) {
	users, err := h.users.ListPending(c.Request.Context(), "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ApproveUser marks an account verified.
func (h *AuthHandler) ApproveUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.users.SetVerified(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not approve user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user verified successfully", "user": user})
}

// CompleteProfile updates the caller's worker profile. Image fields
// carry references produced by the external upload service.
func (h *AuthHandler) CompleteProfile(c *gin.Context) {
	var req struct {
		Phone   *string `json:"phone"`
		Shop    *string `json:"shop"`
		Proof   *string `json:"proof"`
		Profile *string `json:"profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	user, err := h.workers.UpdateProfile(c.Request.Context(), userID, models.WorkerProfileUpdate{
		Phone:   req.Phone,
		Shop:    req.Shop,
		Proof:   req.Proof,
		Profile: req.Profile,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully", "user": user})
}

// ListServices returns the caller's offered services (Worker role).
func (h *AuthHandler) ListServices(c *gin.Context) {
	userID := c.GetInt("userID")
	services, err := h.workers.ListServices(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load services"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// AddService adds a service to the caller's offering (Worker role).
func (h *AuthHandler) AddService(c *gin.Context) {
	var req struct {
		Name           string  `json:"name" binding:"required"`
		Price          float64 `json:"price" binding:"required"`
		AvailableTimes string  `json:"available_times"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	services, err := h.workers.AddService(c.Request.Context(), userID, req.Name, req.Price, req.AvailableTimes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add service"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service added successfully", "services": services})
}

// RemoveService deletes one of the caller's services (Worker role).
func (h *AuthHandler) RemoveService(c *gin.Context) {
	serviceID, err := strconv.Atoi(c.Param("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}

	userID := c.GetInt("userID")
	services, err := h.workers.RemoveService(c.Request.Context(), userID, serviceID)
	if err != nil {
		if errors.Is(err, repositories.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove service"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service removed successfully", "services": services})
}
