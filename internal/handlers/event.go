package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-service/internal/repositories"
)

// EventHandler manages neighborhood events and attendance.
type EventHandler struct {
	events repositories.EventRepository
}

// NewEventHandler builds an EventHandler.
func NewEventHandler(events repositories.EventRepository) *EventHandler {
	return &EventHandler{events: events}
}

// Create creates an event with the calling admin attending.
func (h *EventHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.GetInt("userID")
	event, err := h.events.CreateEvent(c.Request.Context(), adminID, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "event created successfully", "event": event})
}

// List returns every event with attendees.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.ListEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Join records the caller's attendance answer. Answering again
// overwrites the previous answer.
func (h *EventHandler) Join(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req struct {
		Attending *bool `json:"attending" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if err := h.events.SetAttendance(c.Request.Context(), eventID, userID, *req.Attending); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance recorded successfully"})
}
