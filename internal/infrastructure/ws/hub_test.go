package ws

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/parlorchat/parlor/internal/domain"
	"github.com/parlorchat/parlor/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub(t *testing.T) (*Hub, domain.RoomRepository) {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	rooms := repository.NewRoomRepository()
	messages := repository.NewMessageRepository(db)
	hub := NewHub(NewRegistry(), rooms, messages, zap.NewNop().Sugar())
	return hub, rooms
}

func newTestClient(id, userID string, buffer int) *Client {
	return &Client{
		send:   make(chan *Event, buffer),
		ID:     id,
		UserID: userID,
	}
}

// attach registers a client the way the run loop would, without needing a
// live websocket.
func attach(h *Hub, c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.registry.Register(c.ID, c.UserID)
}

func makeRoom(t *testing.T, rooms domain.RoomRepository, creatorID string) *domain.Room {
	t.Helper()
	room, err := domain.NewRoom(creatorID, "general")
	require.NoError(t, err)
	require.NoError(t, rooms.Create(context.Background(), room))
	return room
}

func receiveEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case ev := <-c.send:
		return ev
	case <-time.After(time.Second):
		t.Fatalf("client %s received no event", c.ID)
		return nil
	}
}

func TestHubRunRegistersAndDeregisters(t *testing.T) {
	hub, _ := newTestHub(t)
	go hub.Run()

	c := newTestClient("conn-1", "alice", 8)
	hub.Register() <- c

	require.Eventually(t, func() bool {
		userID, ok := hub.registry.UserOf(c.ID)
		return ok && userID == "alice"
	}, time.Second, 5*time.Millisecond)

	hub.Unregister() <- c

	require.Eventually(t, func() bool {
		_, ok := hub.registry.UserOf(c.ID)
		return !ok
	}, time.Second, 5*time.Millisecond)

	// The send channel is closed exactly once on teardown.
	_, open := <-c.send
	require.False(t, open)
}

func TestHubDeliversToAllSubscribersIncludingSender(t *testing.T) {
	hub, rooms := newTestHub(t)
	room := makeRoom(t, rooms, "alice")

	sender := newTestClient("conn-1", "alice", 8)
	receiver := newTestClient("conn-2", "bob", 8)
	attach(hub, sender)
	attach(hub, receiver)
	require.NoError(t, hub.registry.Subscribe(sender.ID, room.ID))
	require.NoError(t, hub.registry.Subscribe(receiver.ID, room.ID))

	hub.HandleChat(sender, room.ID, "hello")

	got := receiveEvent(t, sender)
	require.Equal(t, ChatMessage, got.Type)

	echo, ok := got.Data.(chatPayload)
	require.True(t, ok)
	require.Equal(t, "alice", echo.SenderID)
	require.Equal(t, "hello", echo.Content)
	require.NotEmpty(t, echo.ID)

	other := receiveEvent(t, receiver)
	payload, ok := other.Data.(chatPayload)
	require.True(t, ok)

	// The sender's copy is the broadcast itself, not a local echo.
	require.Equal(t, echo.ID, payload.ID)
}

func TestHubPersistsBeforeBroadcast(t *testing.T) {
	hub, rooms := newTestHub(t)
	room := makeRoom(t, rooms, "alice")

	sender := newTestClient("conn-1", "alice", 8)
	attach(hub, sender)
	require.NoError(t, hub.registry.Subscribe(sender.ID, room.ID))

	hub.HandleChat(sender, room.ID, "persist me")
	receiveEvent(t, sender)

	msgs, err := hub.messageRepository.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "persist me", msgs[0].Content)
}

func TestHubRejectsUnknownRoom(t *testing.T) {
	hub, _ := newTestHub(t)

	sender := newTestClient("conn-1", "alice", 8)
	attach(hub, sender)

	hub.HandleChat(sender, "no-such-room", "hello")

	ev := receiveEvent(t, sender)
	require.Equal(t, ErrorEvent, ev.Type)

	msgs, err := hub.messageRepository.ListByRoom(context.Background(), "no-such-room")
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestHubRejectsEmptyContentWithoutAppending(t *testing.T) {
	hub, rooms := newTestHub(t)
	room := makeRoom(t, rooms, "alice")

	sender := newTestClient("conn-1", "alice", 8)
	attach(hub, sender)
	require.NoError(t, hub.registry.Subscribe(sender.ID, room.ID))

	hub.HandleChat(sender, room.ID, "   ")

	ev := receiveEvent(t, sender)
	require.Equal(t, ErrorEvent, ev.Type)

	msgs, err := hub.messageRepository.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestHubDeliveryRequiresSubscriptionNotMembership(t *testing.T) {
	hub, rooms := newTestHub(t)
	room := makeRoom(t, rooms, "alice")

	// bob never joined the room durably, but subscribes live.
	listener := newTestClient("conn-2", "bob", 8)
	sender := newTestClient("conn-1", "alice", 8)
	attach(hub, sender)
	attach(hub, listener)
	require.NoError(t, hub.registry.Subscribe(listener.ID, room.ID))

	// alice is a durable member but not subscribed: she receives nothing.
	hub.HandleChat(sender, room.ID, "hello")

	ev := receiveEvent(t, listener)
	require.Equal(t, ChatMessage, ev.Type)

	select {
	case ev := <-sender.send:
		t.Fatalf("unsubscribed sender received %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDisconnectedClientReceivesNothing(t *testing.T) {
	hub, rooms := newTestHub(t)
	room := makeRoom(t, rooms, "alice")

	sender := newTestClient("conn-1", "alice", 8)
	gone := newTestClient("conn-2", "bob", 8)
	attach(hub, sender)
	attach(hub, gone)
	require.NoError(t, hub.registry.Subscribe(sender.ID, room.ID))
	require.NoError(t, hub.registry.Subscribe(gone.ID, room.ID))

	// Simulate a disconnect before the send.
	hub.mu.Lock()
	delete(hub.clients, gone.ID)
	hub.mu.Unlock()
	hub.registry.Deregister(gone.ID)

	hub.HandleChat(sender, room.ID, "hello")

	receiveEvent(t, sender)
	select {
	case ev := <-gone.send:
		t.Fatalf("disconnected client received %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubSlowClientDropsWithoutBlockingOthers(t *testing.T) {
	hub, rooms := newTestHub(t)
	room := makeRoom(t, rooms, "alice")

	sender := newTestClient("conn-1", "alice", 8)
	slow := newTestClient("conn-2", "bob", 1)
	attach(hub, sender)
	attach(hub, slow)
	require.NoError(t, hub.registry.Subscribe(sender.ID, room.ID))
	require.NoError(t, hub.registry.Subscribe(slow.ID, room.ID))

	// Fill the slow client's buffer so the next push must drop.
	require.True(t, slow.TrySend(NewError(room.ID, "NOOP", "filler")))

	hub.HandleChat(sender, room.ID, "first")
	hub.HandleChat(sender, room.ID, "second")

	// The healthy client got both; the append was never unwound.
	first := receiveEvent(t, sender)
	second := receiveEvent(t, sender)
	require.Equal(t, ChatMessage, first.Type)
	require.Equal(t, ChatMessage, second.Type)

	msgs, err := hub.messageRepository.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
}

func TestHubBroadcastOrderMatchesLogOrder(t *testing.T) {
	hub, rooms := newTestHub(t)
	room := makeRoom(t, rooms, "alice")

	sender := newTestClient("conn-1", "alice", 64)
	attach(hub, sender)
	require.NoError(t, hub.registry.Subscribe(sender.ID, room.ID))

	contents := []string{"one", "two", "three", "four", "five"}
	for _, c := range contents {
		hub.HandleChat(sender, room.ID, c)
	}

	for _, want := range contents {
		ev := receiveEvent(t, sender)
		payload, ok := ev.Data.(chatPayload)
		require.True(t, ok)
		require.Equal(t, want, payload.Content)
	}

	msgs, err := hub.messageRepository.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, len(contents))
	for i, want := range contents {
		require.Equal(t, want, msgs[i].Content)
	}
}

func TestHubSubscribeUnregisteredConnection(t *testing.T) {
	hub, _ := newTestHub(t)

	// Never attached: the registry does not know this connection.
	ghost := newTestClient("conn-ghost", "alice", 8)
	hub.Subscribe(ghost, "room-1")

	ev := receiveEvent(t, ghost)
	require.Equal(t, ErrorEvent, ev.Type)
}
