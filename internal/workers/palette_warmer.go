// Package workers runs the service's background loops.
package workers

import (
	"context"
	"time"

	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/palette"
)

// SnapshotRefresher is the palette cache as the warmer sees it.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*palette.Snapshot, error)
}

// PaletteWarmer reloads the palette on a fixed interval so the cached
// snapshot never expires under uploads.
type PaletteWarmer struct {
	cache SnapshotRefresher
}

func NewPaletteWarmer(cache SnapshotRefresher) *PaletteWarmer {
	return &PaletteWarmer{cache: cache}
}

// Start loads the palette immediately and then every interval until ctx is
// done.
func (w *PaletteWarmer) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting palette warmer", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Palette warmer shutting down")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *PaletteWarmer) warm(ctx context.Context) {
	snap, err := w.cache.Refresh(ctx)
	if err != nil {
		logging.Warn("Palette warm-up failed", "error", err)
		return
	}
	logging.Debug("Palette warm", "colours", len(snap.Entries), "loaded_at", snap.LoadedAt)
}
