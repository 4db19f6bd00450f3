package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"community-service/internal/models"
	"community-service/internal/notify"
	"community-service/internal/repositories"
)

// BookingHandler manages the booking lifecycle between residents and
// workers.
type BookingHandler struct {
	bookings repositories.BookingRepository
	users    repositories.UserRepository
	emitter  *notify.Emitter
}

// NewBookingHandler builds a BookingHandler.
func NewBookingHandler(bookings repositories.BookingRepository, users repositories.UserRepository, emitter *notify.Emitter) *BookingHandler {
	return &BookingHandler{bookings: bookings, users: users, emitter: emitter}
}

// Create places a Pending booking with a worker and notifies them.
func (h *BookingHandler) Create(c *gin.Context) {
	var req struct {
		WorkerID    int    `json:"worker_id" binding:"required"`
		Service     string `json:"service" binding:"required"`
		Date        string `json:"date" binding:"required"`
		Time        string `json:"time" binding:"required"`
		IsEmergency bool   `json:"is_emergency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	worker, err := h.users.GetByID(c.Request.Context(), req.WorkerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "worker not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create booking"})
		return
	}

	residentID := c.GetInt("userID")
	booking, err := h.bookings.CreateBooking(c.Request.Context(), residentID, req.WorkerID, req.Service, date, req.Time, req.IsEmergency)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestIDFromContext(c)).Msg("booking create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create booking"})
		return
	}

	h.emitter.Emit(c.Request.Context(), notify.RouteBooking, "booking.created",
		[]string{worker.Email}, "New Booking Request!",
		fmt.Sprintf("You have a new booking request for %s on %s (%s).", booking.Service, req.Date, booking.TimeSlot))

	c.JSON(http.StatusCreated, gin.H{"message": "booking created successfully", "booking": booking})
}

// WorkerBookings lists bookings assigned to the calling worker.
func (h *BookingHandler) WorkerBookings(c *gin.Context) {
	workerID := c.GetInt("userID")
	bookings, err := h.bookings.ListForWorker(c.Request.Context(), workerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ResidentBookings lists bookings placed by the calling resident.
func (h *BookingHandler) ResidentBookings(c *gin.Context) {
	residentID := c.GetInt("userID")
	bookings, err := h.bookings.ListForResident(c.Request.Context(), residentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateStatus resolves a Pending booking. Only the assigned worker may
// resolve it, and a booking that already left Pending stays as it is.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=Accepted Rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.bookings.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update booking"})
		return
	}

	workerID := c.GetInt("userID")
	if existing.WorkerID != workerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
		return
	}

	booking, err := h.bookings.UpdateStatus(c.Request.Context(), bookingID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, repositories.ErrBookingNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "booking already resolved"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update booking"})
		}
		return
	}

	if resident, err := h.users.GetByID(c.Request.Context(), booking.ResidentID); err == nil {
		subject := "Your Booking Has Been Accepted"
		if booking.Status == models.BookingRejected {
			subject = "Your Booking Has Been Rejected"
		}
		h.emitter.Emit(c.Request.Context(), notify.RouteBooking, "booking.resolved",
			[]string{resident.Email}, subject,
			fmt.Sprintf("Your booking for %s has been %s.", booking.Service, booking.Status))
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking updated successfully", "booking": booking})
}
