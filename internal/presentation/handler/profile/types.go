package profile

import (
	"time"

	"github.com/parlorchat/parlor/internal/domain"
)

type updateProfileRequest struct {
	Name     string `json:"name" validate:"omitempty,max=64"`
	Bio      string `json:"bio" validate:"omitempty,max=512"`
	Location string `json:"location" validate:"omitempty,max=64"`
	Website  string `json:"website" validate:"omitempty,max=256"`
	Avatar   string `json:"avatar" validate:"omitempty,max=512"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	Website   string    `json:"website,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Name:      u.Name,
		Bio:       u.Bio,
		Location:  u.Location,
		Website:   u.Website,
		Avatar:    u.Avatar,
	}
}
