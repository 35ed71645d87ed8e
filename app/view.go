package app

import (
	"context"
	"sync"
	"sync/atomic"
)

// view is the shared liveness guard. State is only applied while the caller's context
// is live and the view has not been closed, so results that arrive after teardown are
// dropped.
type view[S any] struct {
	closed atomic.Bool
	mu     sync.Mutex
	state  S
}

// Close marks the view torn down.
func (v *view[S]) Close() {
	v.closed.Store(true)
}

func (v *view[S]) live(ctx context.Context) bool {
	return ctx.Err() == nil && !v.closed.Load()
}

// apply mutates the state if the view is still live and reports whether it did.
func (v *view[S]) apply(ctx context.Context, fn func(*S)) bool {
	if !v.live(ctx) {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.state)
	return true
}

// settle applies fn if the view is still live and returns the snapshot that results.
func (v *view[S]) settle(ctx context.Context, fn func(*S)) S {
	v.apply(ctx, fn)
	return v.State()
}

// State returns a snapshot.
func (v *view[S]) State() S {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}
