package dto

// Query filters for the local read paths, bound from query strings.

type ProductFilter struct {
	Search     string `form:"search"`
	CategoryID int    `form:"category_id"`
	BrandID    int    `form:"brand_id"`
	InStock    bool   `form:"in_stock"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

type SaleFilter struct {
	// Synced: "" = all, "true" = acknowledged, "false" = pending upload
	Synced string `form:"synced"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
