package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is a saved-but-not-finalized sale. Same shape as Sale minus payments;
// submitting a draft remotely converts it into a sale server-side.
type Draft struct {
	LocalID     int64  `gorm:"primaryKey;autoIncrement"`
	ServerID    *int   `gorm:"index"`
	ClientID    int    `gorm:"not null"`
	WarehouseID int    `gorm:"not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxNet      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Shipping    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes       *string
	CreatedAt   time.Time
	Synced      bool `gorm:"index;not null;default:false"`

	Lines []DraftLine `gorm:"foreignKey:DraftLocalID;constraint:OnDelete:CASCADE"`
}

type DraftLine struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	DraftLocalID int64           `gorm:"index;not null"`
	ProductID    int             `gorm:"not null"`
	Quantity     float64         `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProductName  string          `gorm:"not null"`
}
