package sim

import (
	"context"
	"time"
)

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Token is the handle of one running stretch of a simulation. It is
// cancelled when the engine pauses, resets, switches model or closes.
// The zero Token is already cancelled.
type Token struct {
	ctx context.Context
	gen uint64
}

func (t Token) Done() <-chan struct{} {
	if t.ctx == nil {
		return closedCh
	}
	return t.ctx.Done()
}

func (t Token) Err() error {
	if t.ctx == nil {
		return context.Canceled
	}
	return t.ctx.Err()
}

// Valid reports whether the token has not been cancelled.
func (t Token) Valid() bool { return t.Err() == nil }

// Context exposes the token as a context, for drivers that select on it.
func (t Token) Context() context.Context {
	if t.ctx == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return t.ctx
}

// Deadline and Value complete context.Context, so a Token can be passed
// wherever a context is expected.
func (t Token) Deadline() (time.Time, bool) { return t.Context().Deadline() }
func (t Token) Value(key any) any           { return t.Context().Value(key) }
