package core

import "context"

// ProviderInfo is the delivery-provider metadata the comparator needs.
type ProviderInfo struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	DisplayName          string  `json:"display_name"`
	IsActive             bool    `json:"is_active"`
	DeliveryFeeBase      float64 `json:"delivery_fee_base"`
	ServiceFeePercentage float64 `json:"service_fee_percentage"`
}

// MenuItemInfo is the menu-item metadata surfaced in comparisons.
type MenuItemInfo struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
}

// CatalogReader is the read-only view of the menu/provider catalog.
// Unknown ids mean "no comparison data available", never an error.
type CatalogReader interface {
	ActiveProviders(ctx context.Context) ([]ProviderInfo, error)
	Provider(ctx context.Context, providerID int64) (*ProviderInfo, error)
	MenuItem(ctx context.Context, menuItemID int64) (*MenuItemInfo, error)
}
