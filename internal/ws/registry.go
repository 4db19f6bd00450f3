package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry tracks live connections, their room memberships and user
// bindings, and fans published events out to subscribers. It is the
// only shared mutable state of the real-time layer.
type Registry struct {
	mu sync.RWMutex

	// userConns and roomConns index connections by delivery target;
	// boundUser and joinedRooms are the per-connection reverse
	// indexes that make disconnect teardown atomic.
	userConns   map[int]map[*Client]struct{}
	roomConns   map[int]map[*Client]struct{}
	boundUser   map[*Client]int
	joinedRooms map[*Client]map[int]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		userConns:   make(map[int]map[*Client]struct{}),
		roomConns:   make(map[int]map[*Client]struct{}),
		boundUser:   make(map[*Client]int),
		joinedRooms: make(map[*Client]map[int]struct{}),
	}
}

// Add registers a freshly connected client with empty membership and
// no bound user.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.joinedRooms[c]; !ok {
		r.joinedRooms[c] = make(map[int]struct{})
	}
}

// BindUser associates the connection with a user's private channel.
// Idempotent; a connection binds at most one user, so rebinding to a
// different id is refused. Multiple connections may bind the same user.
func (r *Registry) BindUser(c *Client, userID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.joinedRooms[c]; !ok {
		log.Warn().Str("conn_id", c.info.ConnID).Msg("ws: bind on unknown connection ignored")
		return false
	}
	if bound, ok := r.boundUser[c]; ok {
		if bound != userID {
			log.Warn().Str("conn_id", c.info.ConnID).Int("bound", bound).Int("requested", userID).
				Msg("ws: connection already bound to another user")
			return false
		}
		return true
	}
	r.boundUser[c] = userID
	if _, ok := r.userConns[userID]; !ok {
		r.userConns[userID] = make(map[*Client]struct{})
	}
	r.userConns[userID][c] = struct{}{}
	return true
}

// JoinRoom subscribes the connection to a room's fan-out. No
// authorization check happens here; telling clients which rooms exist
// is the REST layer's job.
func (r *Registry) JoinRoom(c *Client, roomID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms, ok := r.joinedRooms[c]
	if !ok {
		log.Warn().Str("conn_id", c.info.ConnID).Msg("ws: join on unknown connection ignored")
		return false
	}
	rooms[roomID] = struct{}{}
	if _, ok := r.roomConns[roomID]; !ok {
		r.roomConns[roomID] = make(map[*Client]struct{})
	}
	r.roomConns[roomID][c] = struct{}{}
	return true
}

// InRoom reports whether the connection currently belongs to the room.
func (r *Registry) InRoom(c *Client, roomID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms, ok := r.joinedRooms[c]
	if !ok {
		return false
	}
	_, joined := rooms[roomID]
	return joined
}

// Remove tears the connection down: it leaves every room and drops its
// user binding in one critical section, so no partial state is
// observable afterward. Removing an unknown connection is a no-op.
func (r *Registry) Remove(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(c)
}

func (r *Registry) removeLocked(c *Client) {
	rooms, ok := r.joinedRooms[c]
	if !ok {
		return
	}
	for roomID := range rooms {
		if conns, ok := r.roomConns[roomID]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(r.roomConns, roomID)
			}
		}
	}
	if userID, ok := r.boundUser[c]; ok {
		if conns, ok := r.userConns[userID]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(r.userConns, userID)
			}
		}
		delete(r.boundUser, c)
	}
	delete(r.joinedRooms, c)
}

// PublishToUser delivers the event to every connection currently bound
// to the user. Zero bound connections means the event is dropped; the
// caller is expected to have persisted anything that must survive an
// offline recipient. Returns the delivery count.
func (r *Registry) PublishToUser(userID int, event any) int {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal user event")
		return 0
	}

	r.mu.RLock()
	targets := make([]*Client, 0, len(r.userConns[userID]))
	for c := range r.userConns[userID] {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	return r.deliver(targets, payload)
}

// PublishToRoom delivers the event to every connection joined to the
// room at delivery time, optionally excluding the origin connection
// (typing indicators). Returns the delivery count.
func (r *Registry) PublishToRoom(roomID int, event any, exclude *Client) int {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal room event")
		return 0
	}

	r.mu.RLock()
	targets := make([]*Client, 0, len(r.roomConns[roomID]))
	for c := range r.roomConns[roomID] {
		if c == exclude {
			continue
		}
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	return r.deliver(targets, payload)
}

func (r *Registry) deliver(targets []*Client, payload []byte) int {
	delivered := 0
	for _, c := range targets {
		if err := c.write(payload); err != nil {
			log.Warn().Err(err).Str("conn_id", c.info.ConnID).Msg("ws: write failed, evicting connection")
			c.close()
			r.Remove(c)
			continue
		}
		delivered++
	}
	return delivered
}
