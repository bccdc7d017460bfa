package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user_backend/internal/feature/user/domain/entity"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Save inserts the user when it is new and updates it in place otherwise.
	// It returns the persisted user with its ID populated.
	// A unique constraint violation on email is reported as ErrDuplicateEmail.
	Save(ctx context.Context, user *entity.User) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user has the given ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail returns ErrUserNotFound when no user has the given email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	FindAll(ctx context.Context) ([]*entity.User, error)

	// DeleteByID reports whether a row existed and was removed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// UserResponse is the read-only projection of a user returned to callers.
type UserResponse struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToUserResponse projects a user entity.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

// UserUsecase orchestrates validation, uniqueness rules and persistence for users.
// It keeps no state between calls and is safe for concurrent use.
type UserUsecase struct {
	users     UserRepository
	validator *UserValidator
}

// NewUserUsecase creates a UserUsecase. A nil validator uses the default deny-list.
func NewUserUsecase(users UserRepository, validator *UserValidator) *UserUsecase {
	if validator == nil {
		validator = NewUserValidator()
	}
	return &UserUsecase{users: users, validator: validator}
}

// CreateUser validates the request, enforces email uniqueness and persists a new user.
func (u *UserUsecase) CreateUser(ctx context.Context, req *CreateUserRequest) (UserResponse, error) {
	if res := u.validator.ValidateForCreate(req); !res.Valid() {
		return UserResponse{}, &ValidationError{Errors: res.Errors()}
	}

	exists, err := u.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return UserResponse{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return UserResponse{}, ErrDuplicateEmail
	}

	user, err := entity.NewUser(req.Name, req.Email)
	if err != nil {
		return UserResponse{}, err
	}

	saved, err := u.users.Save(ctx, user)
	if err != nil {
		return UserResponse{}, fmt.Errorf("save user: %w", err)
	}
	return ToUserResponse(saved), nil
}

// GetUserByID returns the user with the given ID.
func (u *UserUsecase) GetUserByID(ctx context.Context, id int64) (UserResponse, error) {
	if err := checkID(id); err != nil {
		return UserResponse{}, err
	}

	user, err := u.findByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

// GetAllUsers returns every user in repository order. An empty store yields an empty slice.
func (u *UserUsecase) GetAllUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := u.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, ToUserResponse(user))
	}
	return out, nil
}

// UpdateUser replaces the name and email of an existing user.
// Keeping the current email is always allowed.
func (u *UserUsecase) UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (UserResponse, error) {
	if err := checkID(id); err != nil {
		return UserResponse{}, err
	}
	if res := u.validator.ValidateForUpdate(req); !res.Valid() {
		return UserResponse{}, &ValidationError{Errors: res.Errors()}
	}

	user, err := u.findByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	if user.Email() != req.Email {
		exists, err := u.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return UserResponse{}, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return UserResponse{}, fmt.Errorf("another user with this email already exists: %w", ErrDuplicateEmail)
		}
	}

	if err := user.Update(req.Name, req.Email); err != nil {
		return UserResponse{}, err
	}

	saved, err := u.users.Save(ctx, user)
	if err != nil {
		return UserResponse{}, fmt.Errorf("save user: %w", err)
	}
	return ToUserResponse(saved), nil
}

// DeleteUser removes the user with the given ID.
func (u *UserUsecase) DeleteUser(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}

	exists, err := u.users.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return &NotFoundError{ID: id}
	}

	deleted, err := u.users.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return fmt.Errorf("failed to delete user with ID %d: %w", id, ErrStorageInconsistency)
	}
	return nil
}

func (u *UserUsecase) findByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func checkID(id int64) error {
	if id <= 0 {
		return ErrInvalidArgument
	}
	return nil
}
