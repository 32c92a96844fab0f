package gateway

// Wire types for the tenant HTTP API. Every field is explicit — listing
// endpoints that historically decoded into untyped maps get concrete schemas
// here, and numeric fields the API is sloppy about use Flex types.

// BootstrapResponse is the GET pos_data.php payload: reference data plus the
// terminal defaults. Defaults may legitimately arrive as 0 or "" when the
// tenant has not configured them; SetupService applies the fallback policy.
type BootstrapResponse struct {
	DefaultWarehouse  FlexInt                 `json:"defaultWarehouse"`
	DefaultClient     FlexInt                 `json:"defaultClient"`
	DefaultClientName string                  `json:"default_client_name"`
	Clients           []ClientResponse        `json:"clients"`
	Warehouses        []WarehouseResponse     `json:"warehouses"`
	Categories        []CategoryResponse      `json:"categories"`
	Brands            []BrandResponse         `json:"brands"`
	PaymentMethods    []PaymentMethodResponse `json:"payment_methods"`
	ProductsPerPage   FlexInt                 `json:"products_per_page"`
}

type ClientResponse struct {
	ID      FlexInt `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	Address string  `json:"adresse"`
}

type WarehouseResponse struct {
	ID   FlexInt `json:"id"`
	Name string  `json:"name"`
}

type CategoryResponse struct {
	ID   FlexInt `json:"id"`
	Name string  `json:"name"`
}

type BrandResponse struct {
	ID   FlexInt `json:"id"`
	Name string  `json:"name"`
}

type PaymentMethodResponse struct {
	ID   FlexInt `json:"id"`
	Name string  `json:"name"`
}

// ProductPageResponse is one page of GET products.php. The page size is
// server-controlled; callers must not assume a constant.
type ProductPageResponse struct {
	Products  []ProductResponse `json:"products"`
	TotalRows FlexInt           `json:"totalRows"`
}

type ProductResponse struct {
	ID               FlexInt   `json:"id"`
	ProductVariantID FlexInt   `json:"product_variant_id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Barcode          string    `json:"barcode"`
	Image            string    `json:"image"`
	Qty              FlexFloat `json:"qte"`
	QtyForSale       FlexFloat `json:"qte_sale"`
	UnitOfSale       string    `json:"unitSale"`
	ProductType      string    `json:"product_type"`
	NetPrice         FlexFloat `json:"Net_price"`
	CostPrice        FlexFloat `json:"cost_price"`
	CategoryID       FlexInt   `json:"category_id"`
	BrandID          FlexInt   `json:"brand_id"`
}

// ProductFilter narrows a catalog page request. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID  int
	BrandID     int
	InStockOnly bool
}

// SubmitSaleRequest is the POST create_sale.php body. OfflineID is the
// locally generated uuid the server deduplicates retried uploads on.
type SubmitSaleRequest struct {
	OfflineID   string              `json:"offline_id"`
	ClientID    int                 `json:"client_id"`
	WarehouseID int                 `json:"warehouse_id"`
	TaxRate     float64             `json:"tax_rate"`
	TaxNet      float64             `json:"TaxNet"`
	Discount    float64             `json:"discount"`
	Shipping    float64             `json:"shipping"`
	GrandTotal  float64             `json:"GrandTotal"`
	Notes       string              `json:"notes,omitempty"`
	Details     []SaleDetailRequest `json:"details"`
	Payments    []PaymentRequest    `json:"payments"`
}

type SaleDetailRequest struct {
	ProductID        int     `json:"product_id"`
	ProductVariantID *int    `json:"product_variant_id,omitempty"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"Unit_price"`
	Subtotal         float64 `json:"subtotal"`
	TaxPercent       float64 `json:"tax_percent"`
	Discount         float64 `json:"discount"`
	Name             string  `json:"name"`
}

type PaymentRequest struct {
	PaymentMethodID int     `json:"payment_method_id"`
	Amount          float64 `json:"amount"`
}

type SubmitSaleResponse struct {
	Success bool    `json:"success"`
	ID      FlexInt `json:"id"`
}

// SalesListResponse is the typed GET sales.php payload.
type SalesListResponse struct {
	Sales     []SaleSummaryResponse `json:"sales"`
	TotalRows FlexInt               `json:"totalRows"`
}

type SaleSummaryResponse struct {
	ID         FlexInt   `json:"id"`
	Ref        string    `json:"Ref"`
	ClientName string    `json:"client_name"`
	GrandTotal FlexFloat `json:"GrandTotal"`
	Paid       FlexFloat `json:"paid_amount"`
	Status     string    `json:"statut"`
	Date       string    `json:"date"`
}

// SubmitDraftRequest mirrors SubmitSaleRequest without payments.
type SubmitDraftRequest struct {
	ClientID    int                 `json:"client_id"`
	WarehouseID int                 `json:"warehouse_id"`
	TaxRate     float64             `json:"tax_rate"`
	TaxNet      float64             `json:"TaxNet"`
	Discount    float64             `json:"discount"`
	Shipping    float64             `json:"shipping"`
	GrandTotal  float64             `json:"GrandTotal"`
	Notes       string              `json:"notes,omitempty"`
	Details     []SaleDetailRequest `json:"details"`
}

type SubmitDraftResponse struct {
	Success bool    `json:"success"`
	ID      FlexInt `json:"id"`
}

type DraftListResponse struct {
	Drafts    []DraftResponse `json:"drafts"`
	TotalRows FlexInt         `json:"totalRows"`
}

type DraftResponse struct {
	ID         FlexInt   `json:"id"`
	ClientID   FlexInt   `json:"client_id"`
	GrandTotal FlexFloat `json:"GrandTotal"`
	Date       string    `json:"date"`
}

type CreateClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"adresse,omitempty"`
}

type CreateClientResponse struct {
	Success bool    `json:"success"`
	ID      FlexInt `json:"id"`
}
