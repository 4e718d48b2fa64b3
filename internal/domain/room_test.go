package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRoom(t *testing.T) {
	room, err := NewRoom("alice", "general")
	require.NoError(t, err)
	require.NotEmpty(t, room.ID)
	require.Equal(t, "general", room.Name)
	require.Equal(t, "alice", room.CreatorID)
	require.True(t, room.IsMember("alice"))
	require.Equal(t, 1, room.MemberCount())
}

func TestNewRoomRejectsBlankName(t *testing.T) {
	_, err := NewRoom("alice", "   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewRoom("", "general")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoomMembershipLifecycle(t *testing.T) {
	room, err := NewRoom("alice", "general")
	require.NoError(t, err)

	require.NoError(t, room.AddMember("bob"))
	require.True(t, room.IsMember("bob"))
	require.Equal(t, []string{"alice", "bob"}, room.MemberIDs())

	// A second join must be rejected without altering the set.
	require.ErrorIs(t, room.AddMember("bob"), ErrAlreadyMember)
	require.Equal(t, 2, room.MemberCount())

	require.NoError(t, room.RemoveMember("bob"))
	require.False(t, room.IsMember("bob"))

	require.ErrorIs(t, room.RemoveMember("bob"), ErrNotMember)
}

func TestRoomCreatorMayLeave(t *testing.T) {
	room, err := NewRoom("alice", "general")
	require.NoError(t, err)

	require.NoError(t, room.RemoveMember("alice"))
	require.Equal(t, 0, room.MemberCount())
	// Leaving does not strip the creator role.
	require.True(t, room.IsCreator("alice"))
}

func TestRoomCloneIsDeep(t *testing.T) {
	room, err := NewRoom("alice", "general")
	require.NoError(t, err)

	cp := room.Clone()
	require.NoError(t, cp.AddMember("bob"))

	require.False(t, room.IsMember("bob"))
	require.True(t, cp.IsMember("bob"))
}
