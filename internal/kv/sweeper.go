package kv

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically reaps expired entries from a Sweepable engine. It is
// started once from main as a background goroutine.
type Sweeper struct {
	store    Sweepable
	interval time.Duration
	stopCh   chan struct{}
}

func NewSweeper(store Sweepable, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one sweep immediately, then sweeps every interval until the
// context is cancelled or Stop is called.
func (w *Sweeper) Start(ctx context.Context) {
	log.Printf("kv-sweeper: starting (interval=%s)", w.interval)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("kv-sweeper: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("kv-sweeper: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the sweep loop to exit. Safe to call once.
func (w *Sweeper) Stop() {
	close(w.stopCh)
}

func (w *Sweeper) tick(ctx context.Context) {
	start := time.Now()

	removed, err := w.store.Sweep(ctx)
	if err != nil {
		log.Printf("kv-sweeper: sweep error: %v", err)
		return
	}

	if removed > 0 {
		log.Printf("kv-sweeper: removed %d expired entries in %s",
			removed, time.Since(start).Round(time.Millisecond))
	}
}
