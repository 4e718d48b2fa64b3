package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("room-1", "alice", "hello")
	require.NoError(t, err)
	require.NotEmpty(t, msg.ID)
	require.Equal(t, "room-1", msg.RoomID)
	require.Equal(t, "alice", msg.SenderID)
	require.False(t, msg.CreatedAt.IsZero())
}

func TestNewMessageRejectsEmptyContent(t *testing.T) {
	_, err := NewMessage("room-1", "alice", "")
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewMessage("room-1", "alice", "  \t\n ")
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestNewMessageRequiresRoomAndSender(t *testing.T) {
	_, err := NewMessage("", "alice", "hello")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewMessage("room-1", "", "hello")
	require.ErrorIs(t, err, ErrInvalidInput)
}
