package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingNotPending = errors.New("booking already resolved")
)

// BookingRepository abstracts booking persistence.
type BookingRepository interface {
	CreateBooking(ctx context.Context, residentID, workerID int, service string, date time.Time, timeSlot string, isEmergency bool) (models.Booking, error)
	GetBooking(ctx context.Context, bookingID int) (models.Booking, error)
	ListForWorker(ctx context.Context, workerID int) ([]models.BookingSummary, error)
	ListForResident(ctx context.Context, residentID int) ([]models.BookingSummary, error)
	UpdateStatus(ctx context.Context, bookingID int, status string) (models.Booking, error)
}

const bookingColumns = `id, resident_id, worker_id, service, status, booked_date, time_slot, is_emergency, created_at`

// BookingRepo is a sqlx implementation of BookingRepository.
type BookingRepo struct {
	db *sqlx.DB
}

// NewBookingRepo constructs a BookingRepo.
func NewBookingRepo(db *sqlx.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// CreateBooking inserts a Pending booking.
func (r *BookingRepo) CreateBooking(ctx context.Context, residentID, workerID int, service string, date time.Time, timeSlot string, isEmergency bool) (models.Booking, error) {
	var booking models.Booking
	err := r.db.GetContext(ctx, &booking,
		`INSERT INTO bookings (resident_id, worker_id, service, booked_date, time_slot, is_emergency)
         VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+bookingColumns,
		residentID, workerID, service, date, timeSlot, isEmergency)
	return booking, err
}

// GetBooking fetches a booking by id.
func (r *BookingRepo) GetBooking(ctx context.Context, bookingID int) (models.Booking, error) {
	var booking models.Booking
	err := r.db.GetContext(ctx, &booking, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, ErrBookingNotFound
	}
	return booking, err
}

// ListForWorker returns bookings assigned to the worker, newest first.
func (r *BookingRepo) ListForWorker(ctx context.Context, workerID int) ([]models.BookingSummary, error) {
	var bookings []models.BookingSummary
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT b.id, b.resident_id, b.worker_id, b.service, b.status, b.booked_date, b.time_slot, b.is_emergency, b.created_at,
                u.name AS resident_name
         FROM bookings b INNER JOIN users u ON u.id = b.resident_id
         WHERE b.worker_id=$1 ORDER BY b.created_at DESC`, workerID)
	return bookings, err
}

// ListForResident returns bookings placed by the resident, newest first.
func (r *BookingRepo) ListForResident(ctx context.Context, residentID int) ([]models.BookingSummary, error) {
	var bookings []models.BookingSummary
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT b.id, b.resident_id, b.worker_id, b.service, b.status, b.booked_date, b.time_slot, b.is_emergency, b.created_at,
                u.name AS worker_name
         FROM bookings b INNER JOIN users u ON u.id = b.worker_id
         WHERE b.resident_id=$1 ORDER BY b.created_at DESC`, residentID)
	return bookings, err
}

// UpdateStatus moves a Pending booking to a terminal status. Terminal
// states are terminal: a booking that already left Pending returns
// ErrBookingNotPending.
func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID int, status string) (models.Booking, error) {
	var booking models.Booking
	err := r.db.GetContext(ctx, &booking,
		`UPDATE bookings SET status=$2 WHERE id=$1 AND status=$3 RETURNING `+bookingColumns,
		bookingID, status, models.BookingPending)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetBooking(ctx, bookingID); getErr != nil {
			return models.Booking{}, getErr
		}
		return models.Booking{}, ErrBookingNotPending
	}
	return booking, err
}
