// Package di provides dependency injection factories for creating application components.
package di

import (
	"gorm.io/gorm"

	useradapters "user_backend/internal/feature/user/adapters"
	userhandler "user_backend/internal/feature/user/transport/handler"
	userusecase "user_backend/internal/feature/user/usecase"
)

// NewUserHandler wires the user feature: GORM repository, use-case and HTTP handler.
// An empty disposableDomains keeps the validator's default deny-list.
func NewUserHandler(db *gorm.DB, disposableDomains []string) *userhandler.UserHandler {
	repo := useradapters.NewUserGorm(db)
	uc := userusecase.NewUserUsecase(repo, userusecase.NewUserValidator(disposableDomains...))
	return userhandler.NewUserHandler(uc)
}
