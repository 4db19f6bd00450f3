package models

import "time"

// DirectMessage is a persisted private message between two users.
// Immutable once written; the sender and receiver share read access.
type DirectMessage struct {
	ID         int       `db:"id" json:"id"`
	SenderID   int       `db:"sender_id" json:"sender"`
	ReceiverID int       `db:"receiver_id" json:"receiver"`
	Body       string    `db:"body" json:"message"`
	SentAt     time.Time `db:"sent_at" json:"timestamp"`
}

// RoomMessage is a community chat message. It is never persisted and
// exists only as an in-flight event payload. The payload carries the
// author's display name and avatar, not the author's user id.
type RoomMessage struct {
	Text      string `json:"text"`
	User      string `json:"user"`
	Profile   string `json:"profile,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}
