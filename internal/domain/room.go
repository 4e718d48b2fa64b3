package domain

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrAlreadyMember = errors.New("already a member of this room")
	ErrNotMember     = errors.New("not a member of this room")
	ErrNotCreator    = errors.New("only the creator may delete this room")
)

// Room scopes a persisted message history and a set of durable members.
// Membership is independent of live connectivity.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`

	members map[string]struct{}
}

type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) ([]Room, error)
	AddMember(ctx context.Context, roomID, userID string) (*Room, error)
	RemoveMember(ctx context.Context, roomID, userID string) (*Room, error)
	Delete(ctx context.Context, roomID, requesterID string) (*Room, error)
}

// NewRoom creates a room with the creator as its sole initial member.
func NewRoom(creatorID, name string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" || creatorID == "" {
		return nil, ErrInvalidInput
	}

	return &Room{
		ID:        uuid.NewString(),
		Name:      name,
		CreatorID: creatorID,
		CreatedAt: time.Now().UTC(),
		members:   map[string]struct{}{creatorID: {}},
	}, nil
}

func (r *Room) IsCreator(userID string) bool {
	return r.CreatorID == userID
}

func (r *Room) IsMember(userID string) bool {
	_, ok := r.members[userID]
	return ok
}

func (r *Room) AddMember(userID string) error {
	if userID == "" {
		return ErrInvalidInput
	}
	if _, ok := r.members[userID]; ok {
		return ErrAlreadyMember
	}
	r.members[userID] = struct{}{}
	return nil
}

// RemoveMember removes a durable membership. The creator may leave like
// anyone else; creator privilege only gates deletion.
func (r *Room) RemoveMember(userID string) error {
	if _, ok := r.members[userID]; !ok {
		return ErrNotMember
	}
	delete(r.members, userID)
	return nil
}

func (r *Room) MemberCount() int {
	return len(r.members)
}

// MemberIDs returns the membership set in a stable order.
func (r *Room) MemberIDs() []string {
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy so repository snapshots cannot be mutated
// behind the repository's lock.
func (r *Room) Clone() *Room {
	members := make(map[string]struct{}, len(r.members))
	for id := range r.members {
		members[id] = struct{}{}
	}
	cp := *r
	cp.members = members
	return &cp
}
