package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/parlorchat/parlor/internal/domain"
)

// roomRepository is the room directory: durable room existence, membership
// sets and creator identity, shared by many connections. All mutations run
// under the write lock so a reader never observes a half-applied change.
type roomRepository struct {
	rooms map[string]*domain.Room // ID -> Room
	mu    sync.RWMutex
}

func NewRoomRepository() domain.RoomRepository {
	return &roomRepository{
		rooms: make(map[string]*domain.Room),
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room == nil || room.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; exists {
		return domain.ErrInvalidInput
	}

	r.rooms[room.ID] = room.Clone()
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if id == "" {
		return nil, domain.ErrRoomNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	return room.Clone(), nil
}

// List returns a snapshot of every room, ordered by creation time so the
// result is stable within a single call.
func (r *roomRepository) List(ctx context.Context) ([]domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, *room.Clone())
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})

	return rooms, nil
}

func (r *roomRepository) AddMember(ctx context.Context, roomID, userID string) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	if err := room.AddMember(userID); err != nil {
		return nil, err
	}

	return room.Clone(), nil
}

func (r *roomRepository) RemoveMember(ctx context.Context, roomID, userID string) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	if err := room.RemoveMember(userID); err != nil {
		return nil, err
	}

	return room.Clone(), nil
}

// Delete removes a room regardless of membership size, but only for its
// creator. Rooms are never deleted automatically.
func (r *roomRepository) Delete(ctx context.Context, roomID, requesterID string) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[roomID]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	if !room.IsCreator(requesterID) {
		return nil, domain.ErrNotCreator
	}

	delete(r.rooms, roomID)
	return room.Clone(), nil
}
