package catalog

import (
	"context"
	"sort"
	"sync"

	"pricecheck/internal/core"
)

type InMemoryRepository struct {
	mu        sync.RWMutex
	providers map[int64]*Provider
	menuItems map[int64]*MenuItem
	nextID    int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		providers: make(map[int64]*Provider),
		menuItems: make(map[int64]*MenuItem),
		nextID:    1,
	}
}

func (r *InMemoryRepository) AddProvider(p *Provider) *Provider {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	} else if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.providers[p.ID] = p
	return p
}

func (r *InMemoryRepository) AddMenuItem(m *MenuItem) *MenuItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == 0 {
		m.ID = r.nextID
		r.nextID++
	} else if m.ID >= r.nextID {
		r.nextID = m.ID + 1
	}
	r.menuItems[m.ID] = m
	return m
}

func (r *InMemoryRepository) ListProviders(_ context.Context) ([]*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]*Provider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].ID < providers[j].ID })
	return providers, nil
}

func (r *InMemoryRepository) GetProvider(_ context.Context, providerID int64) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[providerID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) GetMenuItem(_ context.Context, menuItemID int64) (*MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.menuItems[menuItemID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return m, nil
}

func (r *InMemoryRepository) ListMenuItemsByRestaurant(
	_ context.Context,
	restaurantID int64,
) ([]*MenuItem, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*MenuItem
	for _, m := range r.menuItems {
		if m.RestaurantID == restaurantID {
			items = append(items, m)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
