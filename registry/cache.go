package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/xy-planning-network/trailhead/metrics"
	"github.com/xy-planning-network/trailhead/module"
)

// A Cache reloads the modules behind Descriptors whose files have changed.
//
// Concurrent Refreshes of the same Descriptor may both reload it;
// the last one stored wins.
type Cache struct {
	loader   module.Loader
	metrics  *metrics.Metrics
	onReload func(id string)
}

// A CacheOptFn configures a *Cache.
type CacheOptFn func(*Cache)

// WithMetrics records reloads to m.
func WithMetrics(m *metrics.Metrics) CacheOptFn {
	return func(c *Cache) { c.metrics = m }
}

// WithOnReload calls fn with the ID of every Descriptor reloaded.
func WithOnReload(fn func(id string)) CacheOptFn {
	return func(c *Cache) { c.onReload = fn }
}

// NewCache constructs a *Cache reloading modules with loader.
func NewCache(loader module.Loader, opts ...CacheOptFn) *Cache {
	c := &Cache{loader: loader}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Refresh reloads the module behind d if its file's modification time
// no longer matches the one d was loaded with.
//
// On failure, d keeps its current module.
func (c *Cache) Refresh(ctx context.Context, d *Descriptor) error {
	info, err := os.Stat(d.ID)
	if err != nil {
		return fmt.Errorf("failed checking %s: %w", d.ID, err)
	}

	if info.ModTime().Equal(d.LastModified()) {
		return nil
	}

	m, err := c.loader.Load(ctx, d.ID)
	c.metrics.Reload(err)
	if err != nil {
		return fmt.Errorf("failed reloading %s: %w", d.ID, err)
	}

	d.swap(m, info.ModTime())
	if c.onReload != nil {
		c.onReload(d.ID)
	}

	return nil
}
