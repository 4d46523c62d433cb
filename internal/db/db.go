package db

import (
	"fmt"  // Error wrapping
	"time" // Pool timings

	"wallet_ledger/internal/config" // Application configuration
	"wallet_ledger/internal/domain" // Domain models

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // Postgres driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM query logger
)

// Open connects to the configured database
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	level := logger.Warn
	if cfg.IsProd {
		level = logger.Error
	}
	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // Surface unique violations as gorm.ErrDuplicatedKey
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return conn, nil
}

// Migrate creates tables, indexes and constraints for every model
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&domain.Account{}, &domain.Wallet{}, &domain.Transaction{})
}
