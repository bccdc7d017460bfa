// Package adapters provides repository implementations for the user feature.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"user_backend/internal/feature/user/domain/entity"
	"user_backend/internal/feature/user/usecase"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// userGorm is a GORM implementation of the UserRepository interface.
// It works against PostgreSQL in production and SQLite locally.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new instance of userGorm.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Save inserts a transient user or updates a persisted one.
// A unique violation on email is returned as usecase.ErrDuplicateEmail.
func (r *userGorm) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserModelFromEntity(u)
	if u.IsNew() {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return nil, translateError(err)
		}
		return model.ToEntity()
	}

	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":       model.Name,
			"email":      model.Email,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("update user %d: %w", model.ID, usecase.ErrStorageInconsistency)
	}
	return model.ToEntity()
}

// FindByID retrieves a user by ID.
// Returns usecase.ErrUserNotFound if no row matches.
func (r *userGorm) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToEntity()
}

// FindByEmail retrieves a user by email address.
// Returns usecase.ErrUserNotFound if no row matches.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return model.ToEntity()
}

// FindAll returns every user ordered by ID.
func (r *userGorm) FindAll(ctx context.Context) ([]*entity.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		u, err := models[i].ToEntity()
		if err != nil {
			return nil, fmt.Errorf("restore user %d: %w", models[i].ID, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// DeleteByID removes the user and reports whether a row was deleted.
func (r *userGorm) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExistsByID reports whether a user with the given ID exists.
func (r *userGorm) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *userGorm) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userGorm) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where(query, arg).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// translateError maps unique violations to usecase.ErrDuplicateEmail.
// gorm.ErrDuplicatedKey requires TranslateError in the gorm.Config; the pgconn
// check covers connections opened without it.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return usecase.ErrDuplicateEmail
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return usecase.ErrDuplicateEmail
	}
	return err
}
