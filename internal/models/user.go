package models

import "time"

// Roles an account can hold.
const (
	RoleResident   = "Resident"
	RoleWorker     = "Worker"
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "SuperAdmin"
)

// User represents a platform account.
type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Shop         string    `db:"shop" json:"shop,omitempty"`
	Proof        string    `db:"proof" json:"proof,omitempty"`
	Profile      string    `db:"profile" json:"profile,omitempty"`
	Nearby       bool      `db:"nearby" json:"nearby"`
	Verified     bool      `db:"verified" json:"verified"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// WorkerService is one service a worker offers.
type WorkerService struct {
	ID             int     `db:"id" json:"id"`
	WorkerID       int     `db:"worker_id" json:"worker_id"`
	Name           string  `db:"name" json:"name"`
	Price          float64 `db:"price" json:"price"`
	AvailableTimes string  `db:"available_times" json:"available_times"`
}

// WorkerRating is a resident's rating of a worker.
type WorkerRating struct {
	ID           int       `db:"id" json:"id"`
	WorkerID     int       `db:"worker_id" json:"worker_id"`
	ResidentID   int       `db:"resident_id" json:"resident_id"`
	ResidentName string    `db:"resident_name" json:"resident_name,omitempty"`
	Rating       int       `db:"rating" json:"rating"`
	Review       string    `db:"review" json:"review,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Worker is a user of role Worker together with the services and
// ratings shown in worker listings.
type Worker struct {
	User
	Services []WorkerService `json:"services"`
	Ratings  []WorkerRating  `json:"ratings"`
}

// WorkerProfileUpdate carries the optional fields of a profile
// completion request. Nil means "leave unchanged".
type WorkerProfileUpdate struct {
	Phone   *string
	Shop    *string
	Proof   *string
	Profile *string
}
