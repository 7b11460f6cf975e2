package repositories

import (
	"github.com/anonto42/tradegram/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the relational tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Location{},
		&models.User{},
		&models.Follow{},
		&models.Listing{},
		&models.Offer{},
		&models.TextComment{},
		&models.ImageComment{},
		&models.Comment{},
		&models.Notification{},
	)
}
