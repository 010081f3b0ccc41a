// Package cleanup runs restoration callbacks when the process is interrupted.
//
// Code that temporarily mutates files acquires a Guard before the mutation.
// The guard's restore function then runs exactly once: when the caller
// releases the guard on its normal or error path, or when an interrupt
// signal arrives first.
package cleanup

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Registry holds the callbacks to run on interruption.
type Registry struct {
	mu   sync.Mutex
	next uint64
	fns  map[uint64]func()
}

// Default is the process-wide registry wired to signals by the CLI.
var Default = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[uint64]func())}
}

// Register adds fn and returns a function that removes it again.
func (r *Registry) Register(fn func()) (unregister func()) {
	r.mu.Lock()
	id := r.next
	r.next++
	r.fns[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.fns, id)
		r.mu.Unlock()
	}
}

// Len returns the number of registered callbacks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fns)
}

// RunAll removes every registered callback and runs it.
func (r *Registry) RunAll() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.fns))
	for id, fn := range r.fns {
		fns = append(fns, fn)
		delete(r.fns, id)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Guard is a registered restore function that runs at most once.
type Guard struct {
	once       sync.Once
	restore    func() error
	err        error
	unregister func()
}

// Acquire registers restore with r and returns its guard.
func Acquire(r *Registry, restore func() error) *Guard {
	g := &Guard{restore: restore}
	g.unregister = r.Register(g.run)
	return g
}

func (g *Guard) run() {
	g.once.Do(func() {
		g.err = g.restore()
	})
}

// Release runs the restore function unless an interruption already did,
// unregisters it, and returns the restore error.
func (g *Guard) Release() error {
	g.run()
	g.unregister()
	return g.err
}

// stopSignals releases a channel from signal delivery.
var stopSignals = signal.Stop

// NotifyContext returns a context that is canceled on SIGINT or SIGTERM.
// The registry's callbacks run before the context is canceled, so restores
// happen even if the canceled work never returns to its own cleanup path.
// Only the first signal is handled; a second one terminates the process.
func NotifyContext(parent context.Context, r *Registry) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			// A second signal gets the default behaviour and terminates.
			stopSignals(sigCh)
			r.RunAll()
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		stopSignals(sigCh)
		cancel()
	}
}
