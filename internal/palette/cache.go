// Package palette keeps the reference colour palette in memory or Redis so
// every upload matches against the same immutable snapshot.
package palette

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"palette-wardrobe/stylist/internal/colour"
	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/metrics"
	"palette-wardrobe/stylist/internal/models/gorm"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = time.Hour
	// LoadTimeout bounds a shared load, which outlives the caller that started it.
	LoadTimeout = 30 * time.Second
)

// ColourSource loads the palette rows in tie-break order.
type ColourSource interface {
	All(ctx context.Context) ([]gorm.Colour, error)
}

// Snapshot is one loaded palette. It is never mutated after construction.
type Snapshot struct {
	Entries  []colour.PaletteEntry `json:"entries"`
	LoadedAt time.Time             `json:"loaded_at"`

	palette *colour.Palette
}

func newSnapshot(entries []colour.PaletteEntry, loadedAt time.Time) *Snapshot {
	return &Snapshot{
		Entries:  entries,
		LoadedAt: loadedAt,
		palette:  colour.NewPalette(entries),
	}
}

func (s *Snapshot) Palette() *colour.Palette { return s.palette }

// Cache serves palette snapshots with lazy loading, a TTL and manual
// invalidation. Concurrent misses share a single load.
type Cache struct {
	source  ColourSource
	backend common.CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry

	group singleflight.Group
	// mu orders a load's generation check and store against Invalidate.
	mu         sync.Mutex
	generation atomic.Uint64
}

func NewCache(source ColourSource, backend common.CacheInterface, ttl time.Duration, m *metrics.MetricsRegistry) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		source:  source,
		backend: backend,
		ttl:     ttl,
		metrics: m,
	}
}

// Snapshot returns the cached palette, loading it on a miss.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap, ok := c.cached(); ok {
		c.hit()
		return snap, nil
	}
	c.miss()

	v, err, _ := c.group.Do(constants.CacheKeyPalette, func() (interface{}, error) {
		if snap, ok := c.cached(); ok {
			return snap, nil
		}
		return c.sharedLoad(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Palette is Snapshot(ctx).Palette().
func (c *Cache) Palette(ctx context.Context) (*colour.Palette, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Palette(), nil
}

// Refresh reloads the palette and replaces the cached snapshot without
// dropping it first, so readers keep hitting the old one meanwhile.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	v, err, _ := c.group.Do(constants.CacheKeyPalette, func() (interface{}, error) {
		return c.sharedLoad(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot. A load already in flight finishes
// for its callers but is not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.generation.Add(1)
	c.group.Forget(constants.CacheKeyPalette)
	c.backend.Delete(constants.CacheKeyPalette)
	c.mu.Unlock()
	logging.Info("Palette cache invalidated", "backend", c.backend.Backend())
}

// sharedLoad detaches the load from the caller's cancellation: every caller
// waiting on the same flight gets its result.
func (c *Cache) sharedLoad(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
	defer cancel()
	return c.load(ctx)
}

func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	gen := c.generation.Load()

	rows, err := c.source.All(ctx)
	if err != nil {
		c.loaded("error")
		return nil, fmt.Errorf("failed to load palette: %w", err)
	}

	entries := make([]colour.PaletteEntry, len(rows))
	for i, row := range rows {
		entries[i] = colour.PaletteEntry{
			ID:            row.ID,
			Name:          row.Name,
			RGB:           row.RGB(),
			Applicability: row.Applicability,
		}
	}
	snap := newSnapshot(entries, time.Now().UTC())

	c.mu.Lock()
	if c.generation.Load() == gen {
		c.backend.Set(constants.CacheKeyPalette, snap, c.ttl)
	}
	c.mu.Unlock()
	c.loaded("ok")
	if c.metrics != nil {
		c.metrics.PaletteSize.Set(float64(len(entries)))
	}
	logging.Debug("Palette loaded", "colours", len(entries), "backend", c.backend.Backend())
	return snap, nil
}

// cached decodes whatever the backend holds: the snapshot pointer for the
// in-process cache, raw JSON for Redis.
func (c *Cache) cached() (*Snapshot, bool) {
	v, ok := c.backend.Get(constants.CacheKeyPalette)
	if !ok {
		return nil, false
	}

	switch val := v.(type) {
	case *Snapshot:
		return val, true
	case json.RawMessage:
		var snap Snapshot
		if err := json.Unmarshal(val, &snap); err != nil {
			logging.Warn("Discarding undecodable palette snapshot", "error", err)
			return nil, false
		}
		return newSnapshot(snap.Entries, snap.LoadedAt), true
	default:
		logging.Warn("Discarding palette snapshot of unexpected type", "type", fmt.Sprintf("%T", v))
		return nil, false
	}
}

func (c *Cache) hit() {
	if c.metrics != nil {
		c.metrics.PaletteCacheHits.Inc()
	}
}

func (c *Cache) miss() {
	if c.metrics != nil {
		c.metrics.PaletteCacheMisses.Inc()
	}
}

func (c *Cache) loaded(result string) {
	if c.metrics != nil {
		c.metrics.PaletteLoads.WithLabelValues(result).Inc()
	}
}
