package messages

import (
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
	messageRepository domain.MessageRepository
	roomRepository    domain.RoomRepository
}

func NewHandler(messageRepository domain.MessageRepository, roomRepository domain.RoomRepository) *Handler {
	return &Handler{
		messageRepository: messageRepository,
		roomRepository:    roomRepository,
	}
}

// SendMessageHandler appends a message to the room log. Delivery to live
// subscribers happens only over the socket path; this endpoint persists.
func (h *Handler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	userID := utils.UserID(r.Context())

	msg, err := domain.NewMessage(req.RoomID, userID, req.Content)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if _, err := h.roomRepository.GetByID(r.Context(), req.RoomID); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, err, "Room not found")
		default:
			log.Printf("Failed to find room %s: %v", req.RoomID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	if err := h.messageRepository.Append(r.Context(), msg); err != nil {
		log.Printf("Failed to append message to room %s: %v", req.RoomID, err)
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, sendMessageResponse{
		Message: "Message sent",
		Data:    toMessageResponse(msg),
	})
}

// ListMessagesHandler returns the room's history oldest first.
func (h *Handler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	if _, err := h.roomRepository.GetByID(r.Context(), roomID); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			json.WriteNotFoundError(w, err, "Room not found")
		default:
			log.Printf("Failed to find room %s: %v", roomID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	msgs, err := h.messageRepository.ListByRoom(r.Context(), roomID)
	if err != nil {
		log.Printf("Failed to list messages for room %s: %v", roomID, err)
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, listMessagesResponse{
		Messages: lo.Map(msgs, func(m domain.Message, _ int) messageResponse {
			return toMessageResponse(&m)
		}),
	})
}
