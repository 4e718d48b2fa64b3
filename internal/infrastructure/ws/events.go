package ws

import (
	"time"

	"github.com/parlorchat/parlor/internal/domain"
)

const (
	// Inbound event types.
	JoinRoom    = "joinRoom"
	ChatMessage = "chatMessage"

	// Outbound event types.
	ErrorEvent = "error"
)

// inboundEvent is the envelope clients send on the live channel. The
// senderId field is accepted for wire compatibility but never trusted: the
// sender identity is always the connection's registered user.
type inboundEvent struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	Content  string `json:"content,omitempty"`
	SenderID string `json:"senderId,omitempty"`
}

// Event is the envelope pushed to subscribers.
type Event struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Data   any    `json:"data"`
}

type chatPayload struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type errorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func NewChatMessage(m domain.Message) *Event {
	return &Event{
		Type:   ChatMessage,
		RoomID: m.RoomID,
		Data: chatPayload{
			ID:        m.ID,
			RoomID:    m.RoomID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
		},
	}
}

func NewError(roomID, code, message string) *Event {
	return &Event{
		Type:   ErrorEvent,
		RoomID: roomID,
		Data: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}
