package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/parlorchat/parlor/internal/domain"
	"go.uber.org/zap"
)

// Hub is the delivery router. It reconciles the durable message log with
// the ephemeral fan-out: every inbound chat event is appended first, then
// pushed to the connections currently subscribed to the room — including
// the sender, who receives the same broadcast as everyone else instead of
// a local echo, so all subscribers observe identical order.
//
// Fan-out uses the registry's live subscriptions, not durable room
// membership. The two are deliberately separate: a connection may receive
// live messages for a room it never joined administratively, and a durable
// member who is not subscribed receives nothing until they poll history.
type Hub struct {
	registry          *Registry
	roomRepository    domain.RoomRepository
	messageRepository domain.MessageRepository
	logger            *zap.SugaredLogger

	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	clients map[string]*Client // connID -> client

	// One mutex per room serializes append+broadcast for that room so the
	// pushed order always matches the log order. Unrelated rooms never
	// contend on each other.
	roomLocks sync.Map // roomID -> *sync.Mutex
}

func NewHub(
	registry *Registry,
	roomRepository domain.RoomRepository,
	messageRepository domain.MessageRepository,
	logger *zap.SugaredLogger,
) *Hub {
	return &Hub{
		registry:          registry,
		roomRepository:    roomRepository,
		messageRepository: messageRepository,
		logger:            logger,
		register:          make(chan *Client),
		unregister:        make(chan *Client),
		clients:           make(map[string]*Client),
	}
}

// Run owns the connection lifecycle. Registration and teardown are
// serialized here; chat events run on the caller's goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()
			h.registry.Register(c.ID, c.UserID)

		case c := <-h.unregister:
			h.mu.Lock()
			_, known := h.clients[c.ID]
			delete(h.clients, c.ID)
			h.mu.Unlock()

			// Repeated unregisters for the same connection are no-ops.
			h.registry.Deregister(c.ID)
			if known {
				close(c.send)
			}
		}
	}
}

func (h *Hub) Register() chan<- *Client {
	return h.register
}

func (h *Hub) Unregister() chan<- *Client {
	return h.unregister
}

// Subscribe adds a live subscription for the client's connection.
func (h *Hub) Subscribe(c *Client, roomID string) {
	if roomID == "" {
		c.TrySend(NewError(roomID, "BAD_EVENT", "roomId is required"))
		return
	}

	if err := h.registry.Subscribe(c.ID, roomID); err != nil {
		c.TrySend(NewError(roomID, "NOT_REGISTERED", "connection is not registered"))
		return
	}

	h.logger.Infow("subscribed", "conn", c.ID, "user", c.UserID, "room", roomID)
}

// HandleChat runs the append+broadcast contract for one inbound event:
//
//  1. validate locally — no append, no broadcast on bad input;
//  2. append to the message log, the durability point;
//  3. resolve the room's subscribers at the moment of the append;
//  4. push the persisted message to each of them, sender included.
//
// Sending requires authentication and room existence only — durable room
// membership is deliberately not checked (history and live delivery are
// gated the same way).
func (h *Hub) HandleChat(c *Client, roomID, content string) {
	msg, err := domain.NewMessage(roomID, c.UserID, content)
	if err != nil {
		c.TrySend(NewError(roomID, "VALIDATION", err.Error()))
		return
	}

	if _, err := h.roomRepository.GetByID(context.Background(), roomID); err != nil {
		code := "INTERNAL"
		if errors.Is(err, domain.ErrRoomNotFound) {
			code = "ROOM_NOT_FOUND"
		}
		c.TrySend(NewError(roomID, code, "cannot deliver to this room"))
		return
	}

	lock := h.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	if err := h.messageRepository.Append(context.Background(), msg); err != nil {
		h.logger.Errorw("message append failed", "room", roomID, "err", err)
		c.TrySend(NewError(roomID, "INTERNAL", "message could not be persisted"))
		return
	}

	h.broadcast(NewChatMessage(*msg))
}

// Broadcast pushes an event to every connection currently subscribed to its
// room. Failures are isolated per recipient: a full buffer drops for that
// client only and never unwinds the append.
func (h *Hub) Broadcast(ev *Event) {
	lock := h.roomLock(ev.RoomID)
	lock.Lock()
	defer lock.Unlock()

	h.broadcast(ev)
}

func (h *Hub) broadcast(ev *Event) {
	subscribers := h.registry.SubscribersOf(ev.RoomID)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, connID := range subscribers {
		c, ok := h.clients[connID]
		if !ok {
			continue
		}
		if !c.TrySend(ev) {
			// Client is too slow — drop the event for them only.
			h.logger.Warnw("client buffer full, dropping event", "conn", connID, "room", ev.RoomID)
		}
	}
}

func (h *Hub) roomLock(roomID string) *sync.Mutex {
	lock, _ := h.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
