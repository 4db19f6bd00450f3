package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-service/internal/repositories"
)

// MessageHandler serves private chat history. Live delivery happens on
// the websocket; this is the catch-up read path.
type MessageHandler struct {
	messages repositories.MessageRepository
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages repositories.MessageRepository) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// History returns the full conversation between the caller and another
// user, oldest first.
func (h *MessageHandler) History(c *gin.Context) {
	otherID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID := c.GetInt("userID")
	msgs, err := h.messages.History(c.Request.Context(), userID, otherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
