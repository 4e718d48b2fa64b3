package rooms

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/parlorchat/parlor/internal/domain"
	"github.com/parlorchat/parlor/internal/infrastructure/json"
	"github.com/parlorchat/parlor/internal/presentation/utils"
	"github.com/samber/lo"
)

var validate = validator.New()

type Handler struct {
	roomRepository domain.RoomRepository
	userRepository domain.UserRepository
}

func NewHandler(roomRepository domain.RoomRepository, userRepository domain.UserRepository) *Handler {
	return &Handler{
		roomRepository: roomRepository,
		userRepository: userRepository,
	}
}

func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	userID := utils.UserID(r.Context())

	room, err := domain.NewRoom(userID, req.Name)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.roomRepository.Create(r.Context(), room); err != nil {
		log.Printf("Failed to create room %s: %v", room.ID, err)
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, createRoomResponse{
		Message: "Room created",
		Room:    h.toRoomResponse(r.Context(), room),
	})
}

func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomRepository.List(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	resp := listRoomsResponse{
		Rooms: lo.Map(rooms, func(room domain.Room, _ int) roomResponse {
			return h.toRoomResponse(r.Context(), &room)
		}),
	}

	json.Write(w, http.StatusOK, resp)
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	room, err := h.roomRepository.GetByID(r.Context(), roomID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, err, "Room not found")
		default:
			log.Printf("Failed to find room: %v", err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, getRoomResponse{Room: h.toRoomResponse(r.Context(), room)})
}

func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := utils.UserID(r.Context())

	room, err := h.roomRepository.AddMember(r.Context(), roomID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, err, "Room not found")
		case errors.Is(err, domain.ErrAlreadyMember):
			json.WriteConflictError(w, err, "User already joined this room")
		default:
			log.Printf("Failed to join room %s: %v", roomID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, joinLeaveResponse{
		Message: "Successfully joined room",
		Room:    h.toRoomResponse(r.Context(), room),
	})
}

// LeaveRoomHandler removes a durable membership. The creator may leave
// like anyone else; only deletion is creator-gated.
func (h *Handler) LeaveRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := utils.UserID(r.Context())

	room, err := h.roomRepository.RemoveMember(r.Context(), roomID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, err, "Room not found")
		case errors.Is(err, domain.ErrNotMember):
			json.WriteConflictError(w, err, "You are not a member of this room")
		default:
			log.Printf("Failed to leave room %s: %v", roomID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, joinLeaveResponse{
		Message: "You left the room successfully",
		Room:    h.toRoomResponse(r.Context(), room),
	})
}

func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := utils.UserID(r.Context())

	if _, err := h.roomRepository.Delete(r.Context(), roomID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, err, "Room not found")
		case errors.Is(err, domain.ErrNotCreator):
			json.WriteForbiddenError(w, err, "Only the creator can delete this room")
		default:
			log.Printf("Failed to delete room %s: %v", roomID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"message": "Room deleted successfully"})
}

// toRoomResponse resolves member and creator ids to display identities.
// Users missing from the store keep their id as a fallback name.
func (h *Handler) toRoomResponse(ctx context.Context, room *domain.Room) roomResponse {
	resolve := func(userID string) memberResponse {
		user, err := h.userRepository.GetByID(ctx, userID)
		if err != nil {
			return memberResponse{ID: userID, Username: userID}
		}
		return memberResponse{ID: user.ID, Username: user.Username}
	}

	return roomResponse{
		ID:        room.ID,
		Name:      room.Name,
		Creator:   resolve(room.CreatorID),
		CreatedAt: room.CreatedAt,
		Members: lo.Map(room.MemberIDs(), func(id string, _ int) memberResponse {
			return resolve(id)
		}),
	}
}
