package repository_test

import (
	"testing"

	"jaymapos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
