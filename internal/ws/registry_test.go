package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWire records written payloads instead of touching a socket.
type fakeWire struct {
	mu       sync.Mutex
	written  [][]byte
	writeErr error
	closed   bool
	readCh   chan []byte
}

func newFakeWire() *fakeWire {
	return &fakeWire{readCh: make(chan []byte, 16)}
}

func (f *fakeWire) ReadMessage() (int, []byte, error) {
	data, ok := <-f.readCh
	if !ok {
		return 0, nil, errors.New("closed")
	}
	return 1, data, nil
}

func (f *fakeWire) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.written = append(f.written, cp)
	return nil
}

func (f *fakeWire) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWire) payloads() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.written))
	copy(out, f.written)
	return out
}

func newTestClient(connID string, userID int) (*Client, *fakeWire) {
	w := newFakeWire()
	c := newClient(w, ConnInfo{ConnID: connID, UserID: userID})
	return c, w
}

func TestPublishToRoomDeliversToMembersOnly(t *testing.T) {
	reg := NewRegistry()

	member, memberWire := newTestClient("c1", 1)
	other, otherWire := newTestClient("c2", 2)
	reg.Add(member)
	reg.Add(other)
	require.True(t, reg.JoinRoom(member, 10))

	delivered := reg.PublishToRoom(10, map[string]string{"hello": "world"}, nil)

	assert.Equal(t, 1, delivered)
	assert.Len(t, memberWire.payloads(), 1)
	assert.Empty(t, otherWire.payloads())
}

func TestPublishToRoomExcludesOrigin(t *testing.T) {
	reg := NewRegistry()

	sender, senderWire := newTestClient("c1", 1)
	receiver, receiverWire := newTestClient("c2", 2)
	reg.Add(sender)
	reg.Add(receiver)
	reg.JoinRoom(sender, 5)
	reg.JoinRoom(receiver, 5)

	delivered := reg.PublishToRoom(5, map[string]string{"typing": "x"}, sender)

	assert.Equal(t, 1, delivered)
	assert.Empty(t, senderWire.payloads())
	assert.Len(t, receiverWire.payloads(), 1)
}

func TestPublishToUserFansOutToAllBoundConnections(t *testing.T) {
	reg := NewRegistry()

	first, firstWire := newTestClient("c1", 7)
	second, secondWire := newTestClient("c2", 7)
	reg.Add(first)
	reg.Add(second)
	require.True(t, reg.BindUser(first, 7))
	require.True(t, reg.BindUser(second, 7))

	delivered := reg.PublishToUser(7, map[string]int{"n": 1})

	assert.Equal(t, 2, delivered)
	assert.Len(t, firstWire.payloads(), 1)
	assert.Len(t, secondWire.payloads(), 1)
}

func TestPublishToUnboundUserDropsEvent(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, 0, reg.PublishToUser(42, map[string]int{"n": 1}))
}

func TestBindUserRefusesRebindToDifferentUser(t *testing.T) {
	reg := NewRegistry()
	client, _ := newTestClient("c1", 1)
	reg.Add(client)

	require.True(t, reg.BindUser(client, 1))
	assert.False(t, reg.BindUser(client, 2))
	assert.True(t, reg.BindUser(client, 1))

	assert.Equal(t, 1, reg.PublishToUser(1, "x"))
	assert.Equal(t, 0, reg.PublishToUser(2, "x"))
}

func TestBindUserOnUnknownConnectionIgnored(t *testing.T) {
	reg := NewRegistry()
	client, _ := newTestClient("c1", 1)

	assert.False(t, reg.BindUser(client, 1))
	assert.Equal(t, 0, reg.PublishToUser(1, "x"))
}

func TestRemoveStopsAllDelivery(t *testing.T) {
	reg := NewRegistry()
	client, wire := newTestClient("c1", 3)
	reg.Add(client)
	reg.JoinRoom(client, 9)
	reg.BindUser(client, 3)

	reg.Remove(client)

	assert.Equal(t, 0, reg.PublishToRoom(9, "x", nil))
	assert.Equal(t, 0, reg.PublishToUser(3, "x"))
	assert.Empty(t, wire.payloads())
	assert.False(t, reg.InRoom(client, 9))
}

func TestDeadConnectionEvictedOnWriteFailure(t *testing.T) {
	reg := NewRegistry()

	dead, deadWire := newTestClient("c1", 1)
	deadWire.writeErr = errors.New("broken pipe")
	alive, aliveWire := newTestClient("c2", 2)
	reg.Add(dead)
	reg.Add(alive)
	reg.JoinRoom(dead, 4)
	reg.JoinRoom(alive, 4)

	delivered := reg.PublishToRoom(4, "x", nil)

	assert.Equal(t, 1, delivered)
	assert.Len(t, aliveWire.payloads(), 1)
	assert.True(t, deadWire.closed)
	assert.False(t, reg.InRoom(dead, 4))
}

func TestPublishMarshalsEventOnce(t *testing.T) {
	reg := NewRegistry()
	client, wire := newTestClient("c1", 1)
	reg.Add(client)
	reg.JoinRoom(client, 2)

	reg.PublishToRoom(2, map[string]any{"a": 1, "b": "two"}, nil)

	payloads := wire.payloads()
	require.Len(t, payloads, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(payloads[0], &got))
	assert.Equal(t, "two", got["b"])
}

func TestDeliveryOrderPerSubscriberIsFIFO(t *testing.T) {
	reg := NewRegistry()
	client, wire := newTestClient("c1", 1)
	reg.Add(client)
	reg.JoinRoom(client, 1)

	for i := 0; i < 10; i++ {
		reg.PublishToRoom(1, map[string]int{"seq": i}, nil)
	}

	payloads := wire.payloads()
	require.Len(t, payloads, 10)
	for i, p := range payloads {
		var got map[string]int
		require.NoError(t, json.Unmarshal(p, &got))
		assert.Equal(t, i, got["seq"])
	}
}
