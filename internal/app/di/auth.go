// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"gorm.io/gorm"

	authadapters "task_backend/internal/feature/auth/adapters"
	authhandler "task_backend/internal/feature/auth/transport/handler"
	authusecase "task_backend/internal/feature/auth/usecase"
	jwtmw "task_backend/internal/platform/jwt"
)

// NewAuthHandler wires the user repository, token generator and auth usecase.
func NewAuthHandler(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, opts ...authusecase.Option) *authhandler.AuthHandler {
	users := authadapters.NewUserPostgres(db)
	gen := jwtmw.NewGenerator(jwtSecret, tokenTTL)
	return authhandler.NewAuthHandler(authusecase.NewAuthUsecase(users, gen, opts...))
}
