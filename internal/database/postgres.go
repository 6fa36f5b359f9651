package database

import (
	"matrimony-backend/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Unique-index violations surface as gorm.ErrDuplicatedKey so the
		// repositories can distinguish duplicate identities from other
		// storage failures.
		TranslateError: true,
	})
}
