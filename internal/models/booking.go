package models

import "time"

// Booking status values. Pending is the only non-terminal state.
const (
	BookingPending  = "Pending"
	BookingAccepted = "Accepted"
	BookingRejected = "Rejected"
)

// Booking is a service booking between a resident and a worker.
type Booking struct {
	ID          int       `db:"id" json:"id"`
	ResidentID  int       `db:"resident_id" json:"resident_id"`
	WorkerID    int       `db:"worker_id" json:"worker_id"`
	Service     string    `db:"service" json:"service"`
	Status      string    `db:"status" json:"status"`
	BookedDate  time.Time `db:"booked_date" json:"date"`
	TimeSlot    string    `db:"time_slot" json:"time"`
	IsEmergency bool      `db:"is_emergency" json:"is_emergency"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// BookingSummary is a booking joined with the counterpart's name for
// listing endpoints.
type BookingSummary struct {
	Booking
	ResidentName string `db:"resident_name" json:"resident_name,omitempty"`
	WorkerName   string `db:"worker_name" json:"worker_name,omitempty"`
}
