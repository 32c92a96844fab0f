package dto

import "time"

type SyncStatusResponse struct {
	LastProductSyncAt time.Time `json:"last_product_sync_at"`
	LastSaleSyncAt    time.Time `json:"last_sale_sync_at"`
	LastDraftSyncAt   time.Time `json:"last_draft_sync_at"`
	ProductSyncActive bool      `json:"product_sync_active"`
	SaleUploadActive  bool      `json:"sale_upload_active"`
	PendingSales      int64     `json:"pending_sales"`
}

type SetupResponse struct {
	DefaultWarehouseID int    `json:"default_warehouse_id"`
	DefaultClientID    int    `json:"default_client_id"`
	ProductsPerPage    int    `json:"products_per_page"`
	FirstPageProducts  int    `json:"first_page_products"`
	Message            string `json:"message"`
}

type BaseURLRequest struct {
	BaseURL string `json:"base_url" validate:"required"`
}

type DefaultsRequest struct {
	WarehouseID     int `json:"warehouse_id" validate:"omitempty,gt=0"`
	ClientID        int `json:"client_id" validate:"omitempty,gt=0"`
	PaymentMethodID int `json:"payment_method_id" validate:"omitempty,gt=0"`
}

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}
