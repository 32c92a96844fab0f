package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product type discriminators as reported by the tenant API.
const (
	ProductTypeSingle  = "is_single"
	ProductTypeCombo   = "is_combo"
	ProductTypeService = "is_service"
)

// Product is a row of the local catalog cache, mirrored from the remote
// product list. The id is server-assigned and stable; a catalog upsert is a
// full-record replace keyed by it (last writer wins, no merge).
type Product struct {
	ID               int     `gorm:"primaryKey"`
	ProductVariantID *int    `gorm:"index"`
	Code             string  `gorm:"index;not null"`
	Barcode          *string `gorm:"index"`
	Name             string  `gorm:"index;not null"`
	Image            *string
	// QtyOnHand is the warehouse quantity; QtyAvailable is what may actually
	// be sold and bounds every cart mutation.
	QtyOnHand    float64         `gorm:"not null;default:0"`
	QtyAvailable float64         `gorm:"not null;default:0"`
	UnitOfSale   string          `gorm:"not null;default:''"`
	ProductType  string          `gorm:"not null;default:'is_single'"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CategoryID   *int            `gorm:"index"`
	BrandID      *int            `gorm:"index"`
	UpdatedAt    time.Time
	Synced       bool `gorm:"index;not null;default:false"`
}

// InStock reports whether the product can be added to a cart at all.
func (p *Product) InStock() bool { return p.QtyAvailable > 0 }
