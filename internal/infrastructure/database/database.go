package database

import (
	"fmt"

	"github.com/sangkips/shopledger-api/internal/config"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured durable store and migrates it.
// It returns a nil handle for the memory driver.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Database.Driver {
	case "memory":
		log.Warn("running without a durable store; state is lost on exit")
		return nil, nil
	case "sqlite":
		db, err = NewSQLiteDB(cfg.Database.SQLitePath, cfg.App.Debug, log)
	default:
		db, err = NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	}
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Reference data
		&entity.Shop{},
		&entity.Product{},
		&entity.Customer{},

		// Ledger events
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Payment{},
		&entity.Expense{},

		// System entities
		&entity.ActivityLog{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormConfig(debug bool) *gorm.Config {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(level),
	}
}
