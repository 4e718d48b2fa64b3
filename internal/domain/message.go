package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyContent = errors.New("message content is required")

// Message is immutable once appended. CreatedAt plus Seq define the total
// order used for retrieval; Seq breaks same-timestamp ties.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Seq       uint64    `json:"-"`
}

type MessageRepository interface {
	Append(ctx context.Context, message *Message) error
	ListByRoom(ctx context.Context, roomID string) ([]Message, error)
}

func NewMessage(roomID, senderID, content string) (*Message, error) {
	if roomID == "" || senderID == "" {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	return &Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}
