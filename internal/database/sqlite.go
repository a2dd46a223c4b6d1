package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/trading-dashboard/internal/models"
)

// Open connects to the SQLite database at dbPath and brings the schema up to date
func Open(dbPath string, log *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}

	log.Infow("Database connected successfully", "path", dbPath)

	// Tables keyed by account_number predate account_key and must be rebuilt first
	if err := migrateLegacyKeys(db, log); err != nil {
		return nil, fmt.Errorf("migrate legacy keys: %w", err)
	}

	// Must run before AutoMigrate adds the unique (account_key, date) index
	if err := cleanupDuplicateHistory(db, log); err != nil {
		return nil, fmt.Errorf("cleanup duplicate history: %w", err)
	}

	if err := db.AutoMigrate(&models.Account{}, &models.HistorySnapshot{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if err := RunMigrations(db, log); err != nil {
		return nil, fmt.Errorf("data migrations: %w", err)
	}

	log.Info("Database migration completed")
	return db, nil
}
