package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/astrelya/cv-to-dc/internal/logger"
	"github.com/astrelya/cv-to-dc/internal/models"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := gormlogger.Silent
	if cfg.Server.Env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("✅ Database connected successfully")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info().Msg("✅ Database migration completed")

	return db, nil
}

// Migrate creates or updates the CV tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.CV{},
		&models.PersonalInfo{},
		&models.Profile{},
		&models.Experience{},
		&models.Education{},
		&models.Skill{},
		&models.Language{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
