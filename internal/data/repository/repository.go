package repository

import (
	"food-ordering/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		RefreshToken: NewRefreshTokenRepository(db, log),
	}
}
