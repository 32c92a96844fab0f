package dto

import "github.com/shopspring/decimal"

// Cashier API request/response bodies for the cart and checkout flow.

type AddToCartRequest struct {
	ProductID int     `json:"product_id" validate:"required_without=Barcode"`
	Barcode   string  `json:"barcode" validate:"required_without=ProductID"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type UpdateQuantityRequest struct {
	Quantity float64 `json:"quantity" validate:"required"`
}

type CartAdjustmentsRequest struct {
	Tax      decimal.Decimal `json:"tax" validate:"min=0"`
	Discount decimal.Decimal `json:"discount" validate:"min=0"`
	Shipping decimal.Decimal `json:"shipping" validate:"min=0"`
}

type SelectClientRequest struct {
	ClientID int `json:"client_id" validate:"required,gt=0"`
}

type SelectWarehouseRequest struct {
	WarehouseID int `json:"warehouse_id" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	PaymentMethodID int             `json:"payment_method_id" validate:"required,gt=0"`
	Amount          decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Notes           string          `json:"notes"`
}

type CartLineResponse struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Lines       []CartLineResponse `json:"lines"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Tax         decimal.Decimal    `json:"tax"`
	Discount    decimal.Decimal    `json:"discount"`
	Shipping    decimal.Decimal    `json:"shipping"`
	Total       decimal.Decimal    `json:"total"`
	ClientID    int                `json:"client_id"`
	WarehouseID int                `json:"warehouse_id"`
}

type CheckoutResponse struct {
	SaleLocalID int64           `json:"sale_local_id"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Change      decimal.Decimal `json:"change"`
}
