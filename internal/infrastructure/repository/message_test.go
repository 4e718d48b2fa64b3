package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/parlorchat/parlor/internal/domain"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func TestMessageRepositoryAppendAssignsIdentity(t *testing.T) {
	repo := NewMessageRepository(openTestDB(t))
	ctx := context.Background()

	msg, err := domain.NewMessage("room-1", "alice", "hello")
	require.NoError(t, err)

	require.NoError(t, repo.Append(ctx, msg))
	require.NotEmpty(t, msg.ID)
	require.False(t, msg.CreatedAt.IsZero())
	require.NotZero(t, msg.Seq)
}

func TestMessageRepositoryListOldestFirst(t *testing.T) {
	repo := NewMessageRepository(openTestDB(t))
	ctx := context.Background()

	const n = 25
	for i := 0; i < n; i++ {
		msg, err := domain.NewMessage("room-1", "alice", fmt.Sprintf("message %d", i))
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, msg))
	}

	msgs, err := repo.ListByRoom(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, msgs, n)

	for i, m := range msgs {
		require.Equal(t, fmt.Sprintf("message %d", i), m.Content)
	}
	for i := 1; i < len(msgs); i++ {
		require.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt))
	}
}

func TestMessageRepositoryRoomsAreIsolated(t *testing.T) {
	repo := NewMessageRepository(openTestDB(t))
	ctx := context.Background()

	for _, room := range []string{"room-a", "room-b"} {
		msg, err := domain.NewMessage(room, "alice", "hello "+room)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, msg))
	}

	msgs, err := repo.ListByRoom(ctx, "room-a")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "hello room-a", msgs[0].Content)
}

func TestMessageRepositoryEmptyRoom(t *testing.T) {
	repo := NewMessageRepository(openTestDB(t))

	msgs, err := repo.ListByRoom(context.Background(), "nobody-here")
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestMessageRepositoryAppendValidates(t *testing.T) {
	repo := NewMessageRepository(openTestDB(t))
	ctx := context.Background()

	require.ErrorIs(t, repo.Append(ctx, nil), domain.ErrInvalidInput)
	require.ErrorIs(t, repo.Append(ctx, &domain.Message{RoomID: "room-1"}), domain.ErrEmptyContent)
}

func TestMessageRepositorySurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	require.NoError(t, err)

	repo := NewMessageRepository(db)
	msg, err := domain.NewMessage("room-1", "alice", "durable")
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, msg))
	require.NoError(t, db.Close())

	db, err = badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	require.NoError(t, err)
	defer db.Close()

	msgs, err := NewMessageRepository(db).ListByRoom(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "durable", msgs[0].Content)
}
