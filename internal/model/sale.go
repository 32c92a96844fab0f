package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a locally committed transaction. It is created in one transaction
// together with its lines and payments at checkout, and mutated exactly once
// afterwards: the upload engine sets ServerID and Synced on acknowledgement.
// The sync path never deletes sales.
type Sale struct {
	LocalID int64 `gorm:"primaryKey;autoIncrement"`
	// OfflineID is generated at checkout and travels with the submit payload
	// so the server can deduplicate a retried upload.
	OfflineID   string `gorm:"uniqueIndex;not null"`
	ServerID    *int   `gorm:"index"`
	ClientID    int    `gorm:"index;not null"`
	WarehouseID int    `gorm:"index;not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxNet      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Shipping    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes       *string
	CreatedAt   time.Time `gorm:"index"`
	Synced      bool      `gorm:"index;not null;default:false"`

	Lines    []SaleLine `gorm:"foreignKey:SaleLocalID;constraint:OnDelete:CASCADE"`
	Payments []Payment  `gorm:"foreignKey:SaleLocalID;constraint:OnDelete:CASCADE"`
}

// SaleLine snapshots quantity, price and product name at checkout time.
// ProductName must never be refreshed from the catalog afterwards — it backs
// offline receipt rendering for sales whose products may have been renamed.
type SaleLine struct {
	ID               int64 `gorm:"primaryKey;autoIncrement"`
	SaleLocalID      int64 `gorm:"index;not null"`
	ProductID        int   `gorm:"index;not null"`
	ProductVariantID *int
	Quantity         float64         `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxPercent       decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	Discount         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ProductName      string          `gorm:"not null"`
}

type Payment struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	SaleLocalID     int64           `gorm:"index;not null"`
	PaymentMethodID int             `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Change = max(0, amount - grand total), fixed at creation time.
	Change decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes  *string
}
