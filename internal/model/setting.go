package model

// Setting is a generic persisted key/value pair: tenant base URL, default
// warehouse/client/payment method ids, server-reported page size, last sync
// timestamp. The cashier UI can change these at runtime.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// Well-known setting keys.
const (
	SettingAPIBaseURL           = "api_base_url"
	SettingDefaultWarehouse     = "default_warehouse"
	SettingDefaultClient        = "default_client"
	SettingDefaultPaymentMethod = "default_payment_method"
	SettingProductsPerPage      = "products_per_page"
	SettingLastSync             = "last_sync"
)
