package ws

import (
	"errors"
	"sync"
)

var ErrNotRegistered = errors.New("connection not registered")

// Registry tracks live connections: which user each connection
// authenticated as and which rooms it is currently subscribed to. It is
// ephemeral by design — nothing here survives a disconnect, and it is NOT
// the source of truth for durable room membership.
type Registry struct {
	mu    sync.RWMutex
	users map[string]string              // connID -> userID
	subs  map[string]map[string]struct{} // connID -> roomIDs
	rooms map[string]map[string]struct{} // roomID -> connIDs
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]string),
		subs:  make(map[string]map[string]struct{}),
		rooms: make(map[string]map[string]struct{}),
	}
}

// Register associates an authenticated connection with its user.
func (r *Registry) Register(connID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[connID] = userID
	if _, ok := r.subs[connID]; !ok {
		r.subs[connID] = make(map[string]struct{})
	}
}

// UserOf resolves the authenticated user behind a connection.
func (r *Registry) UserOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.users[connID]
	return userID, ok
}

// Subscribe adds a live subscription. Only registered connections may
// subscribe; subscribing twice to the same room has no additional effect.
func (r *Registry) Subscribe(connID, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[connID]; !ok {
		return ErrNotRegistered
	}

	r.subs[connID][roomID] = struct{}{}

	conns, ok := r.rooms[roomID]
	if !ok {
		conns = make(map[string]struct{})
		r.rooms[roomID] = conns
	}
	conns[connID] = struct{}{}

	return nil
}

func (r *Registry) Unsubscribe(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if subs, ok := r.subs[connID]; ok {
		delete(subs, roomID)
	}
	r.removeFromRoom(connID, roomID)
}

// Deregister tears down a connection and all its subscriptions. Calling it
// for an unknown connection is a no-op.
func (r *Registry) Deregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID := range r.subs[connID] {
		r.removeFromRoom(connID, roomID)
	}
	delete(r.subs, connID)
	delete(r.users, connID)
}

// SubscribersOf snapshots the connections currently subscribed to a room.
func (r *Registry) SubscribersOf(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.rooms[roomID]
	out := make([]string, 0, len(conns))
	for connID := range conns {
		out = append(out, connID)
	}
	return out
}

func (r *Registry) removeFromRoom(connID, roomID string) {
	conns, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.rooms, roomID)
	}
}
