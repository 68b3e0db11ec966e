package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"myfinance/internal/config"
	"myfinance/internal/models"
	"myfinance/internal/util"

	"gorm.io/gorm"
)

// SeedAdmin creates the configured administrator unless a user with that
// email already exists. It does nothing when the admin section is empty.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg config.AdminConfig, hasher *util.PasswordHasher) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || cfg.Password == "" {
		return nil
	}

	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		slog.Warn("admin user already exists, skipping seed", slog.String("email", email))
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("admin user created", slog.String("email", email), slog.Uint64("id", uint64(admin.ID)))
	return nil
}
