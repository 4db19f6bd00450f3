package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"community-service/internal/auth"
	"community-service/internal/models"
	"community-service/internal/observability"
	"community-service/internal/repositories"
)

// Handler owns the single websocket endpoint. One connection per
// client multiplexes community room chat and private messaging.
type Handler struct {
	registry *Registry
	messages repositories.MessageRepository
	tokens   *auth.TokenManager
}

// NewHandler constructs a Handler.
func NewHandler(registry *Registry, messages repositories.MessageRepository, tokens *auth.TokenManager) *Handler {
	return &Handler{registry: registry, messages: messages, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handshakeToken pulls the bearer token from the Authorization header,
// falling back to the token query parameter for browser websocket
// clients that cannot set headers. A header without the Bearer prefix
// is passed through untouched.
func handshakeToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return c.Query("token")
	}
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return header[len(prefix):]
	}
	return header
}

// Handle authenticates, upgrades the connection and starts its read loop.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("community-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	claims, err := h.tokens.Verify(handshakeToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      claims.UserID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	client := newClient(conn, info)
	h.registry.Add(client)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	log.Info().Str("conn_id", info.ConnID).Int("user_id", info.UserID).Str("ip", info.IP).Msg("ws: connected")

	go h.readLoop(client)
}

func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.registry.Remove(client)
		client.close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		log.Info().Str("conn_id", client.info.ConnID).Int("user_id", client.info.UserID).
			Dur("duration", time.Since(client.info.ConnectedAt)).Msg("ws: disconnected")
	}()

	// The handshake request context dies when Handle returns, so
	// persistence triggered by frames runs off the background context.
	ctx := context.Background()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				log.Warn().Err(err).Str("conn_id", client.info.ConnID).Msg("ws: read error")
			}
			return
		}
		h.handleEvent(ctx, client, data)
	}
}

// handleEvent dispatches one client frame. Malformed or unknown frames
// are logged and dropped; a misbehaving client cannot take the
// connection down.
func (h *Handler) handleEvent(ctx context.Context, client *Client, data []byte) {
	var ev incomingEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		observability.IncWSDropped("malformed")
		log.Warn().Err(err).Str("conn_id", client.info.ConnID).Msg("ws: malformed frame")
		return
	}

	switch ev.Type {
	case evJoinCommunity:
		h.registry.JoinRoom(client, ev.CommunityID)
		observability.IncWSEvent(evJoinCommunity)
		log.Debug().Str("conn_id", client.info.ConnID).Int("community_id", ev.CommunityID).Msg("ws: joined room")

	case evSendRoomMessage:
		// Sends to rooms this connection never joined are dropped:
		// the permissive broadcast of open rooms is not carried.
		if !h.registry.InRoom(client, ev.CommunityID) {
			observability.IncWSDropped("unjoined_room")
			log.Warn().Str("conn_id", client.info.ConnID).Int("community_id", ev.CommunityID).
				Msg("ws: room message from non-member dropped")
			return
		}
		var msg models.RoomMessage
		if err := json.Unmarshal(ev.Message, &msg); err != nil {
			observability.IncWSDropped("malformed")
			return
		}
		observability.IncWSEvent(evSendRoomMessage)
		h.registry.PublishToRoom(ev.CommunityID, roomMessageEvent{
			Type:        evReceiveRoomMessage,
			CommunityID: ev.CommunityID,
			Message:     msg,
		}, nil)

	case evTyping:
		if !h.registry.InRoom(client, ev.CommunityID) {
			observability.IncWSDropped("unjoined_room")
			return
		}
		observability.IncWSEvent(evTyping)
		h.registry.PublishToRoom(ev.CommunityID, typingEvent{
			Type:        evUserTyping,
			CommunityID: ev.CommunityID,
			Username:    ev.Username,
		}, client)

	case evJoinUser:
		// The binding always uses the identity authenticated at
		// handshake; a client-supplied id is never trusted.
		if ev.UserID != 0 && ev.UserID != client.info.UserID {
			log.Warn().Str("conn_id", client.info.ConnID).Int("claimed", ev.UserID).
				Int("authenticated", client.info.UserID).Msg("ws: ignoring client-supplied user id")
		}
		h.registry.BindUser(client, client.info.UserID)
		observability.IncWSEvent(evJoinUser)

	case evSendPrivateMessage:
		var body string
		if err := json.Unmarshal(ev.Message, &body); err != nil || body == "" {
			observability.IncWSDropped("malformed")
			return
		}
		// Persist before delivery so history survives an offline
		// receiver; on a store failure delivery is not attempted.
		msg, err := h.messages.CreateDirectMessage(ctx, client.info.UserID, ev.ReceiverID, body)
		if err != nil {
			observability.IncWSDropped("persist_failed")
			log.Error().Err(err).Str("conn_id", client.info.ConnID).Msg("ws: direct message persist failed")
			return
		}
		observability.IncWSEvent(evSendPrivateMessage)
		h.registry.PublishToUser(ev.ReceiverID, privateMessageEvent{
			Type:      evReceivePrivateMessage,
			Sender:    msg.SenderID,
			Message:   msg.Body,
			Timestamp: msg.SentAt,
		})

	default:
		observability.IncWSDropped("unknown_type")
		log.Warn().Str("conn_id", client.info.ConnID).Str("type", ev.Type).Msg("ws: unknown event type")
	}
}
