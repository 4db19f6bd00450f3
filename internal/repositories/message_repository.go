package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

// MessageRepository persists direct messages. Messages are written
// before real-time delivery is attempted so history survives offline
// recipients; they are immutable and never deleted.
type MessageRepository interface {
	CreateDirectMessage(ctx context.Context, senderID, receiverID int, body string) (models.DirectMessage, error)
	History(ctx context.Context, userID, otherUserID int) ([]models.DirectMessage, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateDirectMessage stores a direct message.
func (r *MessageRepo) CreateDirectMessage(ctx context.Context, senderID, receiverID int, body string) (models.DirectMessage, error) {
	var msg models.DirectMessage
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO direct_messages (sender_id, receiver_id, body) VALUES ($1, $2, $3)
         RETURNING id, sender_id, receiver_id, body, sent_at`,
		senderID, receiverID, body).
		Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Body, &msg.SentAt)
	return msg, err
}

// History returns every message exchanged between the two users,
// oldest first.
func (r *MessageRepo) History(ctx context.Context, userID, otherUserID int) ([]models.DirectMessage, error) {
	var msgs []models.DirectMessage
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, sender_id, receiver_id, body, sent_at FROM direct_messages
         WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
         ORDER BY sent_at ASC`, userID, otherUserID)
	return msgs, err
}
