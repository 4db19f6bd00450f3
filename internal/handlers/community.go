package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-service/internal/repositories"
)

// CommunityHandler manages communities. Each community doubles as a
// chat room on the real-time channel.
type CommunityHandler struct {
	communities repositories.CommunityRepository
}

// NewCommunityHandler builds a CommunityHandler.
func NewCommunityHandler(communities repositories.CommunityRepository) *CommunityHandler {
	return &CommunityHandler{communities: communities}
}

// Create creates a community with the calling admin as first member.
func (h *CommunityHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.GetInt("userID")
	community, err := h.communities.CreateCommunity(c.Request.Context(), adminID, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create community"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "community created successfully", "community": community})
}

// AddUsers adds members to a community. Only the community's admin may
// add members.
func (h *CommunityHandler) AddUsers(c *gin.Context) {
	communityID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid community id"})
		return
	}

	var req struct {
		UserIDs []int `json:"user_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	community, err := h.communities.GetCommunity(c.Request.Context(), communityID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommunityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "community not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add users"})
		return
	}
	if community.AdminID != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your community"})
		return
	}

	if err := h.communities.AddMembers(c.Request.Context(), communityID, req.UserIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "users added successfully"})
}

// MyCommunities returns communities the caller belongs to.
func (h *CommunityHandler) MyCommunities(c *gin.Context) {
	userID := c.GetInt("userID")
	communities, err := h.communities.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load communities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

// ListAll returns every community (admin view).
func (h *CommunityHandler) ListAll(c *gin.Context) {
	communities, err := h.communities.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load communities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}
