package db

import (
	"fmt"
	"strings"

	"github.com/PeterSayer/CottageChooser/config"
	appLogger "github.com/PeterSayer/CottageChooser/pkg/logger"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the database connection. The driver is chosen from
// the URL scheme: postgres:// for deployments, sqlite://path for the
// single-file setup the group actually runs.
func Initialize(cfg *config.DatabaseConfig) error {
	gormCfg := &gorm.Config{
		// Silent mode, request logging happens in middleware.
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var err error
	switch {
	case strings.HasPrefix(cfg.URL, "postgres://"), strings.HasPrefix(cfg.URL, "postgresql://"):
		appLogger.Info("Connecting to postgres database", nil)
		DB, err = gorm.Open(postgres.Open(cfg.URL), gormCfg)
	case strings.HasPrefix(cfg.URL, "sqlite://"):
		path := strings.TrimPrefix(cfg.URL, "sqlite://")
		appLogger.Info("Connecting to sqlite database", map[string]interface{}{
			"path": path,
		})
		DB, err = gorm.Open(sqlite.Open(path), gormCfg)
	default:
		return fmt.Errorf("unsupported database url: %s", cfg.URL)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	appLogger.Info("Database connection established successfully", nil)
	return nil
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
