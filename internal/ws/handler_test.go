package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"community-service/internal/mocks"
	"community-service/internal/models"
)

func frame(t *testing.T, ev incomingEvent) []byte {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return data
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandleEventJoinAndRoomMessage(t *testing.T) {
	reg := NewRegistry()
	h := NewHandler(reg, new(mocks.MessageRepositoryMock), nil)

	sender, _ := newTestClient("c1", 1)
	listener, listenerWire := newTestClient("c2", 2)
	reg.Add(sender)
	reg.Add(listener)

	h.handleEvent(context.Background(), sender, frame(t, incomingEvent{Type: evJoinCommunity, CommunityID: 3}))
	h.handleEvent(context.Background(), listener, frame(t, incomingEvent{Type: evJoinCommunity, CommunityID: 3}))

	msg := models.RoomMessage{Text: "hello neighbors", User: "alice", Timestamp: "10:00"}
	h.handleEvent(context.Background(), sender, frame(t, incomingEvent{
		Type:        evSendRoomMessage,
		CommunityID: 3,
		Message:     rawJSON(t, msg),
	}))

	payloads := listenerWire.payloads()
	require.Len(t, payloads, 1)

	var got roomMessageEvent
	require.NoError(t, json.Unmarshal(payloads[0], &got))
	assert.Equal(t, evReceiveRoomMessage, got.Type)
	assert.Equal(t, 3, got.CommunityID)
	assert.Equal(t, "hello neighbors", got.Message.Text)
	assert.Equal(t, "alice", got.Message.User)
}

func TestHandleEventRoomMessageFromNonMemberDropped(t *testing.T) {
	reg := NewRegistry()
	h := NewHandler(reg, new(mocks.MessageRepositoryMock), nil)

	outsider, _ := newTestClient("c1", 1)
	member, memberWire := newTestClient("c2", 2)
	reg.Add(outsider)
	reg.Add(member)
	reg.JoinRoom(member, 8)

	h.handleEvent(context.Background(), outsider, frame(t, incomingEvent{
		Type:        evSendRoomMessage,
		CommunityID: 8,
		Message:     rawJSON(t, models.RoomMessage{Text: "sneaky"}),
	}))

	assert.Empty(t, memberWire.payloads())
}

func TestHandleEventTypingExcludesSender(t *testing.T) {
	reg := NewRegistry()
	h := NewHandler(reg, new(mocks.MessageRepositoryMock), nil)

	typist, typistWire := newTestClient("c1", 1)
	watcher, watcherWire := newTestClient("c2", 2)
	reg.Add(typist)
	reg.Add(watcher)
	reg.JoinRoom(typist, 5)
	reg.JoinRoom(watcher, 5)

	h.handleEvent(context.Background(), typist, frame(t, incomingEvent{
		Type:        evTyping,
		CommunityID: 5,
		Username:    "alice",
	}))

	assert.Empty(t, typistWire.payloads())
	payloads := watcherWire.payloads()
	require.Len(t, payloads, 1)

	var got typingEvent
	require.NoError(t, json.Unmarshal(payloads[0], &got))
	assert.Equal(t, evUserTyping, got.Type)
	assert.Equal(t, "alice", got.Username)
}

func TestHandleEventPrivateMessagePersistsThenDelivers(t *testing.T) {
	reg := NewRegistry()
	messageRepo := new(mocks.MessageRepositoryMock)
	h := NewHandler(reg, messageRepo, nil)

	sender, _ := newTestClient("c1", 1)
	receiver, receiverWire := newTestClient("c2", 2)
	reg.Add(sender)
	reg.Add(receiver)
	reg.BindUser(receiver, 2)

	sentAt := time.Now().UTC().Truncate(time.Second)
	messageRepo.On("CreateDirectMessage", mock.Anything, 1, 2, "hi there").
		Return(models.DirectMessage{ID: 9, SenderID: 1, ReceiverID: 2, Body: "hi there", SentAt: sentAt}, nil).Once()

	h.handleEvent(context.Background(), sender, frame(t, incomingEvent{
		Type:       evSendPrivateMessage,
		ReceiverID: 2,
		Message:    rawJSON(t, "hi there"),
	}))

	payloads := receiverWire.payloads()
	require.Len(t, payloads, 1)

	var got privateMessageEvent
	require.NoError(t, json.Unmarshal(payloads[0], &got))
	assert.Equal(t, evReceivePrivateMessage, got.Type)
	assert.Equal(t, 1, got.Sender)
	assert.Equal(t, "hi there", got.Message)
	messageRepo.AssertExpectations(t)
}

func TestHandleEventPrivateMessagePersistFailureSkipsDelivery(t *testing.T) {
	reg := NewRegistry()
	messageRepo := new(mocks.MessageRepositoryMock)
	h := NewHandler(reg, messageRepo, nil)

	sender, _ := newTestClient("c1", 1)
	receiver, receiverWire := newTestClient("c2", 2)
	reg.Add(sender)
	reg.Add(receiver)
	reg.BindUser(receiver, 2)

	messageRepo.On("CreateDirectMessage", mock.Anything, 1, 2, "lost").
		Return(models.DirectMessage{}, assert.AnError).Once()

	h.handleEvent(context.Background(), sender, frame(t, incomingEvent{
		Type:       evSendPrivateMessage,
		ReceiverID: 2,
		Message:    rawJSON(t, "lost"),
	}))

	assert.Empty(t, receiverWire.payloads())
	messageRepo.AssertExpectations(t)
}

func TestHandleEventJoinUserBindsAuthenticatedIdentity(t *testing.T) {
	reg := NewRegistry()
	h := NewHandler(reg, new(mocks.MessageRepositoryMock), nil)

	client, wire := newTestClient("c1", 42)
	reg.Add(client)

	// A client-supplied id never overrides the handshake identity.
	h.handleEvent(context.Background(), client, frame(t, incomingEvent{Type: evJoinUser, UserID: 99}))

	assert.Equal(t, 1, reg.PublishToUser(42, "x"))
	assert.Equal(t, 0, reg.PublishToUser(99, "x"))
	assert.Len(t, wire.payloads(), 1)
}

func TestHandleEventJoinUserDoesNotReplayEarlierEvents(t *testing.T) {
	reg := NewRegistry()
	h := NewHandler(reg, new(mocks.MessageRepositoryMock), nil)

	client, wire := newTestClient("c1", 7)
	reg.Add(client)

	// Published before the connection bound its user: dropped, not
	// queued for later delivery.
	require.Equal(t, 0, reg.PublishToUser(7, map[string]string{"early": "event"}))

	h.handleEvent(context.Background(), client, frame(t, incomingEvent{Type: evJoinUser}))

	assert.Empty(t, wire.payloads())
	assert.Equal(t, 1, reg.PublishToUser(7, map[string]string{"late": "event"}))
	assert.Len(t, wire.payloads(), 1)
}

func TestHandshakeTokenSources(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(target, authorization string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		if authorization != "" {
			c.Request.Header.Set("Authorization", authorization)
		}
		return c
	}

	assert.Equal(t, "abc.def.ghi", handshakeToken(newCtx("/ws", "Bearer abc.def.ghi")))
	assert.Equal(t, "abc.def.ghi", handshakeToken(newCtx("/ws", "abc.def.ghi")))
	assert.Equal(t, "abc.def.ghi", handshakeToken(newCtx("/ws?token=abc.def.ghi", "")))
	assert.Equal(t, "", handshakeToken(newCtx("/ws", "")))
}

func TestHandleEventMalformedFrameIgnored(t *testing.T) {
	reg := NewRegistry()
	h := NewHandler(reg, new(mocks.MessageRepositoryMock), nil)

	client, _ := newTestClient("c1", 1)
	reg.Add(client)

	h.handleEvent(context.Background(), client, []byte("{not json"))
	h.handleEvent(context.Background(), client, frame(t, incomingEvent{Type: "no-such-event"}))
}
