package messages

import (
	"time"

	"github.com/parlorchat/parlor/internal/domain"
)

type sendMessageRequest struct {
	RoomID  string `json:"roomId" validate:"required"`
	Content string `json:"content" validate:"required,max=4096"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type sendMessageResponse struct {
	Message string          `json:"message"`
	Data    messageResponse `json:"data"`
}

type listMessagesResponse struct {
	Messages []messageResponse `json:"messages"`
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		RoomID:    m.RoomID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
