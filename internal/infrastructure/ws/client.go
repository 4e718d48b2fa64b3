package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// Client is the per-connection actor: it owns the read and write pumps for
// one authenticated websocket and forwards inbound events to the hub.
type Client struct {
	conn   *connWrapper
	send   chan *Event
	ID     string
	UserID string
}

func NewClient(conn *websocket.Conn, id, userID string) *Client {
	return &Client{
		conn:   newConnWrapper(conn),
		send:   make(chan *Event, 64), // buffered so a slow client cannot stall fan-out
		ID:     id,
		UserID: userID,
	}
}

// ReadPump consumes inbound events until the connection drops, then tears
// the connection down through the hub. Teardown is synchronous: once the
// pump exits the registry holds no trace of this connection.
func (c *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				hub.logger.Infow("ws read error", "conn", c.ID, "err", err)
			}
			return
		}

		var ev inboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.TrySend(NewError("", "BAD_EVENT", "malformed event"))
			continue
		}

		switch ev.Type {
		case JoinRoom:
			hub.Subscribe(c, ev.RoomID)
		case ChatMessage:
			hub.HandleChat(c, ev.RoomID, ev.Content)
		default:
			c.TrySend(NewError(ev.RoomID, "BAD_EVENT", "unknown event type"))
		}
	}
}

// WritePump drains the send channel onto the wire. It exits when the hub
// closes the channel on deregistration or when a write fails.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

// TrySend enqueues an event without blocking. Returns false if the client's
// buffer is full and the event was dropped.
func (c *Client) TrySend(ev *Event) bool {
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}
