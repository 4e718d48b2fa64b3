package repository

import (
	"context"
	"testing"

	"github.com/parlorchat/parlor/internal/domain"
	"github.com/stretchr/testify/require"
)

func mustRoom(t *testing.T, creatorID, name string) *domain.Room {
	t.Helper()
	room, err := domain.NewRoom(creatorID, name)
	require.NoError(t, err)
	return room
}

func TestRoomRepositoryCreateAndGet(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	room := mustRoom(t, "alice", "general")
	require.NoError(t, repo.Create(ctx, room))

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, room.ID, got.ID)
	require.True(t, got.IsMember("alice"))

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomRepositorySnapshotsAreIsolated(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	room := mustRoom(t, "alice", "general")
	require.NoError(t, repo.Create(ctx, room))

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	require.NoError(t, got.AddMember("mallory"))

	// Mutating the snapshot must not leak into the stored room.
	again, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	require.False(t, again.IsMember("mallory"))
}

func TestRoomRepositoryMembership(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	room := mustRoom(t, "alice", "general")
	require.NoError(t, repo.Create(ctx, room))

	updated, err := repo.AddMember(ctx, room.ID, "bob")
	require.NoError(t, err)
	require.True(t, updated.IsMember("bob"))

	_, err = repo.AddMember(ctx, room.ID, "bob")
	require.ErrorIs(t, err, domain.ErrAlreadyMember)

	_, err = repo.AddMember(ctx, "missing", "bob")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)

	updated, err = repo.RemoveMember(ctx, room.ID, "bob")
	require.NoError(t, err)
	require.False(t, updated.IsMember("bob"))

	_, err = repo.RemoveMember(ctx, room.ID, "bob")
	require.ErrorIs(t, err, domain.ErrNotMember)
}

func TestRoomRepositoryDeleteIsCreatorOnly(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	room := mustRoom(t, "alice", "general")
	require.NoError(t, repo.Create(ctx, room))
	_, err := repo.AddMember(ctx, room.ID, "bob")
	require.NoError(t, err)

	_, err = repo.Delete(ctx, room.ID, "bob")
	require.ErrorIs(t, err, domain.ErrNotCreator)

	// The failed attempt must not have removed the room.
	_, err = repo.GetByID(ctx, room.ID)
	require.NoError(t, err)

	_, err = repo.Delete(ctx, room.ID, "alice")
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, room.ID)
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomRepositoryListOrdersByCreation(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	first := mustRoom(t, "alice", "first")
	second := mustRoom(t, "alice", "second")
	second.CreatedAt = first.CreatedAt.Add(1)

	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	rooms, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	require.Equal(t, first.ID, rooms[0].ID)
	require.Equal(t, second.ID, rooms[1].ID)
}
