package bootstrap

import (
	"context"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const adminUsername = "admin"

// EnsureAdmin creates the default administrator account if it does not
// exist yet. The password comes from ADMIN_DEFAULT_PASSWORD; admin login
// flags it as must-change until it is rotated.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, config *utils.Config, logger *zap.Logger) error {
	existing, err := users.FindByUsername(ctx, adminUsername)
	if err != nil {
		return fmt.Errorf("bootstrap admin lookup: %w", err)
	}
	if existing != nil {
		return nil
	}

	hashed, err := utils.HashPassword(config.Admin.DefaultPassword)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}

	now := time.Now()
	username := adminUsername
	admin := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     &username,
		Role:         entity.RoleAdmin,
		PasswordHash: &hashed,
		IsActive:     true,
	}

	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("bootstrap create admin: %w", err)
	}

	logger.Info("Default admin account created",
		zap.String("user_id", admin.ID.String()),
		zap.String("username", adminUsername),
	)

	return nil
}
