package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-service/internal/models"
	"community-service/internal/notify"
	"community-service/internal/repositories"
)

// SuperAdminHandler covers platform-level administration: the admin
// approval queue and account oversight.
type SuperAdminHandler struct {
	users   repositories.UserRepository
	emitter *notify.Emitter
}

// NewSuperAdminHandler builds a SuperAdminHandler.
func NewSuperAdminHandler(users repositories.UserRepository, emitter *notify.Emitter) *SuperAdminHandler {
	return &SuperAdminHandler{users: users, emitter: emitter}
}

// Users returns every account on the platform.
func (h *SuperAdminHandler) Users(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// PendingAdmins returns admin accounts awaiting approval.
func (h *SuperAdminHandler) PendingAdmins(c *gin.Context) {
	users, err := h.users.ListPending(c.Request.Context(), models.RoleAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pending admins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Approve resolves a pending account: approving verifies it, rejecting
// deletes it. Either way the applicant is notified.
func (h *SuperAdminHandler) Approve(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req struct {
		Action string `json:"action" binding:"required,oneof=approve reject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve account"})
		return
	}

	if req.Action == "approve" {
		user, err := h.users.SetVerified(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not approve account"})
			return
		}
		h.emitter.Emit(c.Request.Context(), notify.RouteAccount, "account.approved",
			[]string{user.Email}, "Your Account Has Been Approved",
			"Your account has been approved. You can now log in.")
		c.JSON(http.StatusOK, gin.H{"message": "account approved successfully", "user": user})
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reject account"})
		return
	}
	h.emitter.Emit(c.Request.Context(), notify.RouteAccount, "account.rejected",
		[]string{existing.Email}, "Your Account Application Was Rejected",
		"Your account application has been rejected.")
	c.JSON(http.StatusOK, gin.H{"message": "account rejected successfully"})
}

// Residents returns every resident account.
func (h *SuperAdminHandler) Residents(c *gin.Context) {
	users, err := h.users.ListByRole(c.Request.Context(), models.RoleResident)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load residents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
