package dto

import (
	"time"

	"user_backend/internal/feature/user/usecase"
)

// UserResponse is the JSON representation of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUsecase maps a use-case projection to its JSON form.
func FromUsecase(u usecase.UserResponse) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromUsecaseList maps a list, always yielding a non-nil slice so it encodes as [].
func FromUsecaseList(users []usecase.UserResponse) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUsecase(u))
	}
	return out
}
