package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/parlorchat/parlor/internal/domain"
	"github.com/parlorchat/parlor/internal/infrastructure/auth"
	"github.com/parlorchat/parlor/internal/infrastructure/json"
	"github.com/parlorchat/parlor/internal/presentation/utils"
)

var validate = validator.New()

type Handler struct {
	userRepository domain.UserRepository
	hasher         *auth.PasswordHasher
	tokens         *auth.TokenManager
}

func NewHandler(
	userRepository domain.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenManager,
) *Handler {
	return &Handler{
		userRepository: userRepository,
		hasher:         hasher,
		tokens:         tokens,
	}
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, passwordHash)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.userRepository.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			json.WriteConflictError(w, err, "Username already taken")
		default:
			log.Printf("Failed to create user: %v", err)
			json.WriteInternalError(w, err)
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	utils.SetSessionCookie(w, token, h.tokens.TTL())
	json.Write(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    toUserResponse(user),
	})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	user, err := h.userRepository.GetByUsername(r.Context(), req.Username)
	if err != nil {
		// Same response for unknown user and bad password.
		json.WriteUnauthorizedError(w, "Invalid credentials")
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		json.WriteUnauthorizedError(w, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	utils.SetSessionCookie(w, token, h.tokens.TTL())
	json.Write(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    toUserResponse(user),
	})
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
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

	json.Write(w, http.StatusOK, meResponse{User: toUserResponse(user)})
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	utils.ClearSessionCookie(w)
	json.Write(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
