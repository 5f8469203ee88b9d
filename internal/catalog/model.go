package catalog

import "time"

// Provider is a delivery application through which menu items are sold.
type Provider struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	DisplayName          string    `json:"display_name"`
	IsActive             bool      `json:"is_active"`
	DeliveryFeeBase      float64   `json:"delivery_fee_base"`
	ServiceFeePercentage float64   `json:"service_fee_percentage"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// MenuItem is one dish on a restaurant's menu.
type MenuItem struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	IsVegetarian bool      `json:"is_vegetarian"`
	IsHalal      bool      `json:"is_halal"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
