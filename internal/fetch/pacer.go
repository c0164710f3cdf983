// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer gates downloads. Wait blocks until the next download may start and
// Done marks the end of the current one.
type Pacer interface {
	Wait(ctx context.Context) error
	Done()
}

// NewPacer returns a pacer that admits the first download immediately and
// every later one a full interval after the previous download finished,
// however long that download took. A non-positive interval disables pacing.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return noPacer{}
	}
	return &delayPacer{
		every: rate.Every(interval),
		lim:   rate.NewLimiter(rate.Every(interval), 1),
	}
}

// delayPacer restarts a single-token bucket at the end of each download, so
// the bucket refills only after the download is over.
type delayPacer struct {
	every rate.Limit

	mu  sync.Mutex
	lim *rate.Limiter
}

func (p *delayPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	lim := p.lim
	p.mu.Unlock()
	return lim.Wait(ctx)
}

func (p *delayPacer) Done() {
	lim := rate.NewLimiter(p.every, 1)
	lim.Allow()

	p.mu.Lock()
	p.lim = lim
	p.mu.Unlock()
}

type noPacer struct{}

func (noPacer) Wait(ctx context.Context) error { return ctx.Err() }
func (noPacer) Done()                          {}
