package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/palette"

	"github.com/stretchr/testify/assert"
)

func init() {
	logging.UseNop()
}

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (c *countingLoader) Refresh(ctx context.Context) (*palette.Snapshot, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &palette.Snapshot{LoadedAt: time.Now()}, nil
}

func TestPaletteWarmerRunsUntilCancelled(t *testing.T) {
	loader := &countingLoader{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewPaletteWarmer(loader).Start(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return loader.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("warmer did not stop after cancel")
	}
}

func TestPaletteWarmerSurvivesErrors(t *testing.T) {
	loader := &countingLoader{err: errors.New("db down")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go NewPaletteWarmer(loader).Start(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return loader.calls.Load() >= 2 }, time.Second, time.Millisecond)
}
