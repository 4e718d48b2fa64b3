package profile

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/parlorchat/parlor/internal/domain"
	"github.com/parlorchat/parlor/internal/infrastructure/json"
	"github.com/parlorchat/parlor/internal/presentation/utils"
)

var validate = validator.New()

type Handler struct {
	userRepository domain.UserRepository
}

func NewHandler(userRepository domain.UserRepository) *Handler {
	return &Handler{userRepository: userRepository}
}

func (h *Handler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := utils.UserID(r.Context())

	user, err := h.userRepository.GetByID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			json.WriteNotFoundError(w, err, "User not found")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, toProfileResponse(user))
}

// UpdateProfileHandler overwrites the optional profile fields. Identity
// fields (id, username, email) are not editable here.
func (h *Handler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	userID := utils.UserID(r.Context())

	user, err := h.userRepository.GetByID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			json.WriteNotFoundError(w, err, "User not found")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	user.Name = req.Name
	user.Bio = req.Bio
	user.Location = req.Location
	user.Website = req.Website
	user.Avatar = req.Avatar

	if err := h.userRepository.Update(r.Context(), user); err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toProfileResponse(user))
}
