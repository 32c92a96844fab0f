package model

// Client is a customer cached from the tenant API. At most one client is
// flagged as the terminal default.
type Client struct {
	ID        int    `gorm:"primaryKey"`
	Name      string `gorm:"index;not null"`
	Phone     *string
	Email     *string
	Address   *string
	IsDefault bool `gorm:"index;not null;default:false"`
}
