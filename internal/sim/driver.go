package sim

import (
	"context"
	"time"
)

// Drive ticks e every interval with dt until ctx ends or tok is cancelled.
// It returns ctx.Err() when the context stopped it and nil otherwise.
func Drive(ctx context.Context, e *Engine, tok Token, interval time.Duration, dt float64) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tok.Done():
			return nil
		case <-ticker.C:
			if !e.TickWith(tok, dt) {
				return nil
			}
		}
	}
}

// RunFor ticks e synchronously up to n times and returns how many ticks
// ran. It stops early once tok is cancelled.
func RunFor(e *Engine, tok Token, n int, dt float64) int {
	for i := 0; i < n; i++ {
		if !e.TickWith(tok, dt) {
			return i
		}
	}
	return n
}
