package model

// Warehouse mirrors the tenant's warehouse list. The default warehouse scopes
// every catalog sync (stock figures are per warehouse).
type Warehouse struct {
	ID        int    `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	IsDefault bool   `gorm:"index;not null;default:false"`
}
