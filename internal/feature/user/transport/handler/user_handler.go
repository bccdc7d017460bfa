// Package handler provides the HTTP handlers for the user feature.
package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"user_backend/internal/feature/user/domain/entity"
	"user_backend/internal/feature/user/transport/http/dto"
	"user_backend/internal/feature/user/usecase"
)

// healthMessage is the plain-text body of GET /api/v1/health.
const healthMessage = "User service is running!"

// maxBodyBytes caps create and update payloads.
const maxBodyBytes = 4 << 10

// UserUsecase defines the user operations needed by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type UserUsecase interface {
	CreateUser(ctx context.Context, req *usecase.CreateUserRequest) (usecase.UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (usecase.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]usecase.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, req *usecase.UpdateUserRequest) (usecase.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserHandler handles HTTP requests for the /api/v1/users resource.
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUser handles POST /api/v1/users.
// Returns 201 with the created user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	req, err := bindBody[dto.CreateUserRequest](c)
	if err != nil {
		slog.Warn("create user: bad request body", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.ToUsecase())
	if err != nil {
		h.writeError(c, "create user", err)
		return
	}
	slog.Info("user created", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.FromUsecase(user))
}

// GetUser handles GET /api/v1/users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUsecase(user))
}

// ListUsers handles GET /api/v1/users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.GetAllUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUsecaseList(users))
}

// UpdateUser handles PUT /api/v1/users/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, err := bindBody[dto.UpdateUserRequest](c)
	if err != nil {
		slog.Warn("update user: bad request body", "error", err, "user_id", id, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, req.ToUsecase())
	if err != nil {
		h.writeError(c, "update user", err)
		return
	}
	slog.Info("user updated", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.FromUsecase(user))
}

// DeleteUser handles DELETE /api/v1/users/:id.
// Returns 204 with no body.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		h.writeError(c, "delete user", err)
		return
	}
	slog.Info("user deleted", "user_id", id, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

// Health handles GET /api/v1/health.
func (h *UserHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, healthMessage)
}

// writeError maps use-case errors to HTTP status codes.
// Unknown errors are logged and hidden behind a generic 500.
func (h *UserHandler) writeError(c *gin.Context, op string, err error) {
	var vErr *usecase.ValidationError
	var nfErr *usecase.NotFoundError

	switch {
	case errors.As(err, &vErr):
		slog.Warn(op+": validation failed", "errors", vErr.Errors, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: vErr.Error(), Details: vErr.Errors})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: nfErr.Error()})
	case errors.Is(err, usecase.ErrInvalidArgument), errors.Is(err, entity.ErrInvalidUserState):
		slog.Warn(op+": bad request", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrDuplicateEmail):
		slog.Warn(op+": duplicate email", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrStorageInconsistency):
		slog.Error(op+": storage inconsistency", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

// parseID reads the :id path parameter.
// A non-numeric id is answered like a missing one.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: usecase.ErrInvalidArgument.Error()})
		return 0, false
	}
	return id, true
}

// bindBody decodes a JSON body. A literal null body yields a nil request,
// which the use-case reports as a validation failure. Bodies over
// maxBodyBytes are rejected.
func bindBody[T any](c *gin.Context) (*T, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}
	var req T
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
