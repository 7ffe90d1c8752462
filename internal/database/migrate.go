package database

import (
	"agelink_backend/internal/models"
	chatmodels "agelink_backend/internal/models/chat"

	"gorm.io/gorm"
)

// AutoMigrate brings the schema up to date with the model structs. The chat
// tables live in their own "chat" schema.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS chat`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Application{},
		&models.Relationship{},
		&models.Withdrawal{},
		&models.Notification{},
		&chatmodels.Dialog{},
		&chatmodels.DialogParticipant{},
		&chatmodels.Message{},
	)
}
