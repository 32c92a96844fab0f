package infra

import (
	"fmt"
	"os"

	"jaymapos/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the embedded sqlite store and migrates the schema.
// The store is a local cache plus a durable sales journal, so the migration
// policy is deliberately simple: if AutoMigrate fails (schema drift between
// app versions), the database file is destroyed and recreated. Catalog and
// reference data are re-mirrored on the next sync; only unsynced sales would
// be lost, which is why the recreate path refuses to run when any exist.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("schema migration failed, recreating local store")

		var pending int64
		if db.Migrator().HasTable(&model.Sale{}) {
			db.Model(&model.Sale{}).Where("synced = ?", false).Count(&pending)
		}
		if pending > 0 {
			return nil, fmt.Errorf("local store migration failed with %d unsynced sales pending, refusing destructive recreate: %w", pending, err)
		}

		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		if path != ":memory:" {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				return nil, fmt.Errorf("recreate local store: %w", rmErr)
			}
		}
		db, err = open(path)
		if err != nil {
			return nil, err
		}
		if err := migrate(db); err != nil {
			return nil, fmt.Errorf("migrate recreated store: %w", err)
		}
	}

	// Writers from the scheduler, the checkout path and the API run
	// concurrently; WAL keeps readers unblocked, busy_timeout serializes
	// writer bursts instead of failing them.
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := db.Exec("PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := db.Exec("PRAGMA foreign_keys=ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

func open(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Product{},
		&model.Client{},
		&model.Warehouse{},
		&model.Category{},
		&model.Brand{},
		&model.PaymentMethod{},
		&model.Sale{},
		&model.SaleLine{},
		&model.Payment{},
		&model.Draft{},
		&model.DraftLine{},
		&model.SyncStatus{},
		&model.Setting{},
	)
}
