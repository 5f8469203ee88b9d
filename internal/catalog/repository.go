package catalog

import "context"

// Repository defines all database operations for the catalog.
// The comparator only ever reads it; writes belong to admin tooling.
type Repository interface {
	ListProviders(ctx context.Context) ([]*Provider, error)
	GetProvider(ctx context.Context, providerID int64) (*Provider, error)
	GetMenuItem(ctx context.Context, menuItemID int64) (*MenuItem, error)
	ListMenuItemsByRestaurant(ctx context.Context, restaurantID int64) ([]*MenuItem, error)
}
