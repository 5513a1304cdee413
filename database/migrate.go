package database

import (
	"github.com/UnicornXOS/bl1nk-web-portal/migrations"
	"github.com/UnicornXOS/bl1nk-web-portal/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserFavorite{},
		&models.UserPreference{},
		&models.APIKey{},
		&models.Agent{},
		&models.AgentProfile{},
		&models.AgentSkill{},
	); err != nil {
		return err
	}

	if err := migrations.CreateUserFavoritesIndexes(db); err != nil {
		return err
	}
	if err := migrations.CreateAgentsIndexes(db); err != nil {
		return err
	}
	return nil
}
