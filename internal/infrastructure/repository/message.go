package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/parlorchat/parlor/internal/domain"
)

// messageRepository is the append-only message log, persisted in BadgerDB.
//
// The key is formatted as "msg:{roomID}:{timestamp_padded}:{seq_padded}" so
// that a forward prefix scan yields messages in creation order:
//  1. the 19-digit zero-padded unix-nano timestamp sorts lexicographically
//     in chronological order;
//  2. the process-wide sequence breaks ties when two appends land on the
//     same nanosecond.
type messageRepository struct {
	db  *badger.DB
	seq atomic.Uint64
}

func NewMessageRepository(db *badger.DB) domain.MessageRepository {
	return &messageRepository{db: db}
}

func messageKey(m *domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%012d", m.RoomID, m.CreatedAt.UnixNano(), m.Seq))
}

func roomPrefix(roomID string) []byte {
	return []byte(fmt.Sprintf("msg:%s:", roomID))
}

// Append durably writes a message and assigns its order key. Messages are
// immutable once written; there is no update or delete path.
func (r *messageRepository) Append(ctx context.Context, message *domain.Message) error {
	if message == nil || message.RoomID == "" {
		return domain.ErrInvalidInput
	}
	if message.Content == "" {
		return domain.ErrEmptyContent
	}

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	message.Seq = r.seq.Add(1)

	value, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), value)
	})
}

// ListByRoom returns every message for the room, oldest first. A room with
// no messages yields an empty slice, never an error.
func (r *messageRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Message, error) {
	if roomID == "" {
		return nil, domain.ErrInvalidInput
	}

	messages := make([]domain.Message, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		prefix := roomPrefix(roomID)
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var m domain.Message
				if err := json.Unmarshal(value, &m); err != nil {
					return err
				}
				messages = append(messages, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}
