package models

import "time"

// Post is a neighborhood update.
type Post struct {
	ID           int           `db:"id" json:"id"`
	UserID       int           `db:"user_id" json:"user_id"`
	AuthorName   string        `db:"author_name" json:"author_name,omitempty"`
	AuthorAvatar string        `db:"author_avatar" json:"author_avatar,omitempty"`
	Description  string        `db:"description" json:"description"`
	Image        string        `db:"image" json:"image,omitempty"`
	Location     string        `db:"location" json:"location,omitempty"`
	Latitude     *float64      `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64      `db:"longitude" json:"longitude,omitempty"`
	IsMapVisible bool          `db:"is_map_visible" json:"is_map_visible"`
	Priority     bool          `db:"priority" json:"priority"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	Comments     []PostComment `json:"comments"`
}

// PostComment is a comment on a post.
type PostComment struct {
	ID         int       `db:"id" json:"id"`
	PostID     int       `db:"post_id" json:"post_id"`
	UserID     int       `db:"user_id" json:"user_id"`
	AuthorName string    `db:"author_name" json:"author_name,omitempty"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// NewPost carries the fields of a post creation request. Coordinates
// are stored only when the author made the post visible on the map.
type NewPost struct {
	UserID       int
	Description  string
	Image        string
	Location     string
	Latitude     *float64
	Longitude    *float64
	IsMapVisible bool
	Priority     bool
}

// PostUpdate carries the optional fields of a post edit.
type PostUpdate struct {
	Description *string
	Location    *string
	Image       *string
	Priority    *bool
}
