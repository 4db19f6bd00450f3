package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"community-service/internal/models"
	"community-service/internal/notify"
	"community-service/internal/repositories"
)

// PostHandler manages neighborhood posts and comments.
type PostHandler struct {
	posts   repositories.PostRepository
	users   repositories.UserRepository
	emitter *notify.Emitter
}

// NewPostHandler builds a PostHandler.
func NewPostHandler(posts repositories.PostRepository, users repositories.UserRepository, emitter *notify.Emitter) *PostHandler {
	return &PostHandler{posts: posts, users: users, emitter: emitter}
}

// Create publishes a post. High priority posts trigger a notice to
// every registered account.
func (h *PostHandler) Create(c *gin.Context) {
	var req struct {
		Description  string   `json:"description" binding:"required"`
		Image        string   `json:"image"`
		Location     string   `json:"location"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
		IsMapVisible bool     `json:"is_map_visible"`
		Priority     bool     `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	post, err := h.posts.CreatePost(c.Request.Context(), models.NewPost{
		UserID:       userID,
		Description:  req.Description,
		Image:        req.Image,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		IsMapVisible: req.IsMapVisible,
		Priority:     req.Priority,
	})
	if err != nil {
		log.Error().Err(err).Str("request_id", requestIDFromContext(c)).Msg("post create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create post"})
		return
	}

	if post.Priority {
		if emails, err := h.users.ListEmails(c.Request.Context()); err == nil && len(emails) > 0 {
			h.emitter.Emit(c.Request.Context(), notify.RoutePost, "post.priority",
				emails, "New High Priority Post",
				fmt.Sprintf("A high priority post was published in your neighborhood: %s", post.Description))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "post created successfully", "post": post})
}

// List returns every post with comments.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.ListPosts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// MyPosts returns the caller's posts.
func (h *PostHandler) MyPosts(c *gin.Context) {
	userID := c.GetInt("userID")
	posts, err := h.posts.ListPostsByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Comment appends a comment to a post.
func (h *PostHandler) Comment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	post, err := h.posts.AddComment(c.Request.Context(), postID, userID, req.Text)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment added successfully", "post": post})
}

// Update edits a post. Only the author may edit it.
func (h *PostHandler) Update(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req struct {
		Description *string `json:"description"`
		Location    *string `json:"location"`
		Image       *string `json:"image"`
		Priority    *bool   `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.posts.GetPost(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update post"})
		return
	}
	if existing.UserID != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your post"})
		return
	}

	post, err := h.posts.UpdatePost(c.Request.Context(), postID, models.PostUpdate{
		Description: req.Description,
		Location:    req.Location,
		Image:       req.Image,
		Priority:    req.Priority,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post updated successfully", "post": post})
}

// Delete removes a post. Only the author may delete it.
func (h *PostHandler) Delete(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	existing, err := h.posts.GetPost(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete post"})
		return
	}
	if existing.UserID != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your post"})
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}
