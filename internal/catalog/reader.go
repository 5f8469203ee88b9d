package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"pricecheck/internal/core"
)

// Reader adapts the repository to core.CatalogReader with a small
// in-process TTL cache. Catalog rows change rarely but sit on the hot
// comparison path, so stale reads for a minute are acceptable.
type Reader struct {
	repo  Repository
	cache *gocache.Cache
}

func NewReader(repo Repository) *Reader {
	return &Reader{
		repo:  repo,
		cache: gocache.New(time.Minute, 5*time.Minute),
	}
}

func (r *Reader) ActiveProviders(ctx context.Context) ([]core.ProviderInfo, error) {
	const key = "providers:active"

	if cached, ok := r.cache.Get(key); ok {
		return cached.([]core.ProviderInfo), nil
	}

	providers, err := r.repo.ListProviders(ctx)
	if err != nil {
		return nil, err
	}

	var infos []core.ProviderInfo
	for _, p := range providers {
		if !p.IsActive {
			continue
		}
		infos = append(infos, providerInfo(p))
	}

	r.cache.Set(key, infos, gocache.DefaultExpiration)
	return infos, nil
}

func (r *Reader) Provider(ctx context.Context, providerID int64) (*core.ProviderInfo, error) {
	key := fmt.Sprintf("provider:%d", providerID)

	if cached, ok := r.cache.Get(key); ok {
		info := cached.(core.ProviderInfo)
		return &info, nil
	}

	p, err := r.repo.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	info := providerInfo(p)
	r.cache.Set(key, info, gocache.DefaultExpiration)
	return &info, nil
}

func (r *Reader) MenuItem(ctx context.Context, menuItemID int64) (*core.MenuItemInfo, error) {
	key := fmt.Sprintf("menuitem:%d", menuItemID)

	if cached, ok := r.cache.Get(key); ok {
		info := cached.(core.MenuItemInfo)
		return &info, nil
	}

	m, err := r.repo.GetMenuItem(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	info := core.MenuItemInfo{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Category:     m.Category,
	}
	r.cache.Set(key, info, gocache.DefaultExpiration)
	return &info, nil
}

func providerInfo(p *Provider) core.ProviderInfo {
	return core.ProviderInfo{
		ID:                   p.ID,
		Name:                 p.Name,
		DisplayName:          p.DisplayName,
		IsActive:             p.IsActive,
		DeliveryFeeBase:      p.DeliveryFeeBase,
		ServiceFeePercentage: p.ServiceFeePercentage,
	}
}
