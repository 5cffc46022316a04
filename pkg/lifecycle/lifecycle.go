// Package lifecycle coordinates subsystem startup and shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator tracks startup and shutdown hooks across subsystems.
// Startup hooks run concurrently; readiness flips once all complete.
// Shutdown hooks block on the coordinator context before cleaning up.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool
}

// New creates a Coordinator backed by a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator context, cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently as part of the startup phase.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown runs fn concurrently during shutdown. Hooks should wait on
// <-Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Ready reports whether all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until every startup hook has finished,
// then marks the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the coordinator context and waits up to timeout
// for all shutdown hooks to drain.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
