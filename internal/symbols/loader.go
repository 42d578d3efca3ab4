package symbols

import (
	"context"
	"errors"
)

// ErrLoading is returned by Loader.Get while the load is still running.
var ErrLoading = errors.New("symbol map still loading")

// Loader runs a single map load in the background and reports its outcome.
// No guess can be accepted until Get returns a Map. There are no retries: a
// failed load stays failed for the life of the Loader.
type Loader struct {
	done chan struct{}
	m    *Map
	err  error
}

// StartLoader begins load in its own goroutine.
func StartLoader(ctx context.Context, load func(context.Context) (*Map, error)) *Loader {
	l := &Loader{done: make(chan struct{})}
	go func() {
		defer close(l.done)
		l.m, l.err = load(ctx)
		if l.err == nil && l.m == nil {
			l.err = &LoadError{Source: "loader", Err: errors.New("no map returned")}
		}
	}()
	return l
}

// Ready wraps an already loaded map.
func Ready(m *Map) *Loader {
	l := &Loader{done: make(chan struct{}), m: m}
	close(l.done)
	return l
}

// Get returns the map without blocking: ErrLoading while pending, the load
// error if it failed.
func (l *Loader) Get() (*Map, error) {
	select {
	case <-l.done:
		return l.m, l.err
	default:
		return nil, ErrLoading
	}
}

// Wait blocks until the load finishes or ctx ends.
func (l *Loader) Wait(ctx context.Context) (*Map, error) {
	select {
	case <-l.done:
		return l.m, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once the load has finished.
func (l *Loader) Done() <-chan struct{} { return l.done }
