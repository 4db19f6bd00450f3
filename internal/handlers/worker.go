package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-service/internal/repositories"
)

// WorkerHandler serves the resident-facing worker marketplace.
type WorkerHandler struct {
	workers repositories.WorkerRepository
}

// NewWorkerHandler builds a WorkerHandler.
func NewWorkerHandler(workers repositories.WorkerRepository) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

// List returns every worker with services and ratings.
func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.workers.ListWorkers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load workers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// Rate records the caller's rating for a worker.
func (h *WorkerHandler) Rate(c *gin.Context) {
	workerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
		return
	}

	var req struct {
		Rating int    `json:"rating" binding:"required,min=1,max=5"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	residentID := c.GetInt("userID")
	ratings, err := h.workers.AddRating(c.Request.Context(), workerID, residentID, req.Rating, req.Review)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating added successfully", "ratings": ratings})
}
