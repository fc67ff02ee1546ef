package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/devmonks/metrdotel/internal/models"
	"github.com/devmonks/metrdotel/pkg/logger"
)

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.ActivationToken{},
		&models.PasswordResetToken{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.Reservation{},
		&models.Review{},
		&models.Visit{},
	)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logger.WithModule("database").Info("migrations applied")
	return nil
}
