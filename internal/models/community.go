package models

import "time"

// Community is a named broadcast group residents can belong to. Its id
// doubles as the room id on the real-time channel.
type Community struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	AdminID     int       `db:"admin_id" json:"admin_id"`
	AdminName   string    `db:"admin_name" json:"admin_name,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
