package ws

import (
	"encoding/json"
	"time"

	"community-service/internal/models"
)

// Client-to-server event types.
const (
	evJoinCommunity      = "join-community"
	evSendRoomMessage    = "send-room-message"
	evTyping             = "typing"
	evJoinUser           = "join-user"
	evSendPrivateMessage = "send-private-message"
)

// Server-to-client event types.
const (
	evReceiveRoomMessage    = "receive-room-message"
	evUserTyping            = "user-typing"
	evReceivePrivateMessage = "receive-private-message"
)

// incomingEvent is the envelope for every client frame. Message is
// decoded per event type: a RoomMessage for room sends, a bare string
// for private sends.
type incomingEvent struct {
	Type        string          `json:"type"`
	CommunityID int             `json:"community_id,omitempty"`
	UserID      int             `json:"user_id,omitempty"`
	Username    string          `json:"username,omitempty"`
	ReceiverID  int             `json:"receiver_id,omitempty"`
	Message     json.RawMessage `json:"message,omitempty"`
}

type roomMessageEvent struct {
	Type        string             `json:"type"`
	CommunityID int                `json:"community_id"`
	Message     models.RoomMessage `json:"message"`
}

type typingEvent struct {
	Type        string `json:"type"`
	CommunityID int    `json:"community_id"`
	Username    string `json:"username"`
}

type privateMessageEvent struct {
	Type      string    `json:"type"`
	Sender    int       `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
