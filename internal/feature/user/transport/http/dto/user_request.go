// Package dto defines data transfer objects for the user feature's HTTP transport layer.
package dto

import "user_backend/internal/feature/user/usecase"

// CreateUserRequest is the request body for POST /api/v1/users.
// Field rules are enforced by the use-case validator, not by binding tags.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUsecase converts the body to the use-case input.
func (r *CreateUserRequest) ToUsecase() *usecase.CreateUserRequest {
	if r == nil {
		return nil
	}
	return &usecase.CreateUserRequest{Name: r.Name, Email: r.Email}
}

// UpdateUserRequest is the request body for PUT /api/v1/users/:id.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUsecase converts the body to the use-case input.
func (r *UpdateUserRequest) ToUsecase() *usecase.UpdateUserRequest {
	if r == nil {
		return nil
	}
	return &usecase.UpdateUserRequest{Name: r.Name, Email: r.Email}
}
