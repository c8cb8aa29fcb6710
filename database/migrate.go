package database

import (
	"carecompanion/internal/models"

	"github.com/rs/zerolog/log"
)

func MigrateDatabase() error {
	log.Info().Msg("Running database migrations...")

	if err := DB.AutoMigrate(&models.ActivityRow{}); err != nil {
		log.Error().Err(err).Msg("Error during migration")
		return err
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}
