package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rkjewellers/billing-api/internal/config"
	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/pkg/apperror"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every persisted model. AutoMigrate only ever adds to this set.
var Tables = []interface{}{
	&entity.ShopConfig{},
	&entity.Customer{},
	&entity.Invoice{},
	&entity.DailyRevenue{},
	&entity.IdempotencyKey{},
}

// Open connects to the configured storage engine. Failures are reported as
// storage-unavailable errors.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), gormConfig)
	case "sqlite", "":
		db, err = openSQLite(cfg.Path, gormConfig)
	default:
		return nil, apperror.NewStorageUnavailableError(fmt.Errorf("unknown database driver %q", cfg.Driver))
	}
	if err != nil {
		return nil, apperror.NewStorageUnavailableError(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperror.NewStorageUnavailableError(fmt.Errorf("failed to get underlying sql.DB: %w", err))
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, apperror.NewStorageUnavailableError(err)
	}

	if cfg.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
	} else {
		// sqlite allows a single writer; one connection keeps writes serialized
		sqlDB.SetMaxOpenConns(1)
	}

	zap.L().Info("connected to database", zap.String("driver", db.Dialector.Name()))
	return db, nil
}

func openSQLite(path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	dsn := path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	return gorm.Open(sqlite.Open(dsn), gormConfig)
}

// AutoMigrate creates any missing tables, columns and indexes. Existing
// tables and their data are left in place.
func AutoMigrate(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	if err := db.AutoMigrate(Tables...); err != nil {
		return apperror.NewStorageUnavailableError(fmt.Errorf("failed to run migrations: %w", err))
	}

	zap.L().Info("database migrations completed")
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
