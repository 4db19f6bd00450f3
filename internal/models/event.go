package models

import "time"

// Event is an admin-organized neighborhood event.
type Event struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description,omitempty"`
	AdminID     int             `db:"admin_id" json:"admin_id"`
	AdminName   string          `db:"admin_name" json:"admin_name,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	Attendees   []EventAttendee `json:"attendees"`
}

// EventAttendee records a user's attendance answer for an event.
type EventAttendee struct {
	EventID   int    `db:"event_id" json:"event_id"`
	UserID    int    `db:"user_id" json:"user_id"`
	UserName  string `db:"user_name" json:"user_name,omitempty"`
	Attending bool   `db:"attending" json:"attending"`
}
