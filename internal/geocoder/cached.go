package geocoder

import (
	"context"
	"strings"

	"github.com/Varun5711/devcamper/internal/cache"
	"github.com/Varun5711/devcamper/internal/logger"
	"github.com/Varun5711/devcamper/internal/models"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
}

// Cached memoises lookups in a tiered cache. Cache failures never fail a lookup.
type Cached struct {
	next  Geocoder
	cache *cache.Tiered
	log   *logger.Logger
}

func NewCached(next Geocoder, c *cache.Tiered) *Cached {
	return &Cached{
		next:  next,
		cache: c,
		log:   logger.New("geocoder"),
	}
}

func (g *Cached) Geocode(ctx context.Context, address string) (*models.Location, error) {
	key := strings.ToLower(strings.TrimSpace(address))

	var loc models.Location
	found, err := g.cache.Get(ctx, key, &loc)
	if err != nil {
		g.log.Warn("Geocode cache read failed for %q: %v", key, err)
	}
	if found {
		return &loc, nil
	}

	result, err := g.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := g.cache.Set(ctx, key, result); err != nil {
		g.log.Warn("Geocode cache write failed for %q: %v", key, err)
	}
	return result, nil
}
