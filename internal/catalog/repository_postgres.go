package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pricecheck/internal/core"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// PROVIDERS
// --------------------------------------------------

func (r *PostgresRepository) ListProviders(ctx context.Context) ([]*Provider, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			name,
			display_name,
			is_active,
			delivery_fee_base,
			service_fee_percentage,
			created_at,
			updated_at
		FROM providers
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []*Provider

	for rows.Next() {
		var p Provider
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.DisplayName,
			&p.IsActive,
			&p.DeliveryFeeBase,
			&p.ServiceFeePercentage,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		providers = append(providers, &p)
	}

	return providers, rows.Err()
}

func (r *PostgresRepository) GetProvider(
	ctx context.Context,
	providerID int64,
) (*Provider, error) {

	var p Provider
	err := r.db.QueryRow(ctx, `
		SELECT
			id,
			name,
			display_name,
			is_active,
			delivery_fee_base,
			service_fee_percentage,
			created_at,
			updated_at
		FROM providers
		WHERE id = $1
	`, providerID).Scan(
		&p.ID,
		&p.Name,
		&p.DisplayName,
		&p.IsActive,
		&p.DeliveryFeeBase,
		&p.ServiceFeePercentage,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}

// --------------------------------------------------
// MENU ITEMS
// --------------------------------------------------

func (r *PostgresRepository) GetMenuItem(
	ctx context.Context,
	menuItemID int64,
) (*MenuItem, error) {

	var m MenuItem
	err := r.db.QueryRow(ctx, `
		SELECT
			id,
			restaurant_id,
			name,
			COALESCE(category, ''),
			is_vegetarian,
			is_halal,
			is_available,
			created_at,
			updated_at
		FROM menu_items
		WHERE id = $1
	`, menuItemID).Scan(
		&m.ID,
		&m.RestaurantID,
		&m.Name,
		&m.Category,
		&m.IsVegetarian,
		&m.IsHalal,
		&m.IsAvailable,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *PostgresRepository) ListMenuItemsByRestaurant(
	ctx context.Context,
	restaurantID int64,
) ([]*MenuItem, error) {

	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			restaurant_id,
			name,
			COALESCE(category, ''),
			is_vegetarian,
			is_halal,
			is_available,
			created_at,
			updated_at
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY name
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*MenuItem

	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(
			&m.ID,
			&m.RestaurantID,
			&m.Name,
			&m.Category,
			&m.IsVegetarian,
			&m.IsHalal,
			&m.IsAvailable,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}

	return items, rows.Err()
}
