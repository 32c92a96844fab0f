package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all process-level configuration loaded from environment
// variables. Terminal-mutable settings (tenant base URL, default warehouse,
// default client, server page size) live in the settings table instead —
// the cashier can change them at runtime without a restart.
type Config struct {
	// Server (loopback API for the cashier UI)
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Local store
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// Remote tenant API
	DefaultBaseURL string        `mapstructure:"API_BASE_URL"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`

	// Catalog sync
	ProductsPerPage        int `mapstructure:"PRODUCTS_PER_PAGE"`
	MaxConsecutiveFailures int `mapstructure:"MAX_CONSECUTIVE_FAILURES"`
	MaxCatalogPages        int `mapstructure:"MAX_CATALOG_PAGES"`

	// Scheduler cadence
	ProductSyncInterval time.Duration `mapstructure:"PRODUCT_SYNC_INTERVAL"`
	SaleUploadInterval  time.Duration `mapstructure:"SALE_UPLOAD_INTERVAL"`
	DraftSyncInterval   time.Duration `mapstructure:"DRAFT_SYNC_INTERVAL"`

	// Receipts
	ReceiptStoragePath string `mapstructure:"RECEIPT_STORAGE_PATH"`
	BusinessName       string `mapstructure:"BUSINESS_NAME"`
}

// SyncConfig is the slice of configuration the scheduler needs.
type SyncConfig struct {
	ProductSyncInterval time.Duration
	SaleUploadInterval  time.Duration
	DraftSyncInterval   time.Duration
}

func (c *Config) Sync() SyncConfig {
	return SyncConfig{
		ProductSyncInterval: c.ProductSyncInterval,
		SaleUploadInterval:  c.SaleUploadInterval,
		DraftSyncInterval:   c.DraftSyncInterval,
	}
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 7373)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_PATH", "jayma_pos.db")
	viper.SetDefault("API_BASE_URL", "")
	viper.SetDefault("HTTP_TIMEOUT", 30*time.Second)
	viper.SetDefault("PRODUCTS_PER_PAGE", 28)
	viper.SetDefault("MAX_CONSECUTIVE_FAILURES", 3)
	viper.SetDefault("MAX_CATALOG_PAGES", 100)
	// Products hourly to keep prices and stock fresh; sales every 5 minutes
	// because the server decrements inventory from them.
	viper.SetDefault("PRODUCT_SYNC_INTERVAL", time.Hour)
	viper.SetDefault("SALE_UPLOAD_INTERVAL", 5*time.Minute)
	viper.SetDefault("DRAFT_SYNC_INTERVAL", 15*time.Minute)
	viper.SetDefault("RECEIPT_STORAGE_PATH", "/tmp/jaymapos/receipts")
	viper.SetDefault("BUSINESS_NAME", "Jayma POS")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
