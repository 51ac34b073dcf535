package repository

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/infrastructure/logger"
)

// Guard serializes writers and lets readers run in parallel.
//
// A panic inside a critical section marks the guard degraded. Go mutexes are
// not poisoned by a panicking holder, so the state is tracked explicitly:
// once degraded, every later Read or Write fails with entities.ErrLockUnusable
// until the process restarts.
type Guard struct {
	mu       sync.RWMutex
	degraded atomic.Bool
	logger   *logger.Logger
}

// NewGuard creates a usable guard.
func NewGuard(log *logger.Logger) *Guard {
	return &Guard{logger: log.WithComponent("guard")}
}

// Usable reports whether the guard has not been degraded.
func (g *Guard) Usable() bool {
	return !g.degraded.Load()
}

// Read runs fn while holding shared access.
func (g *Guard) Read(op string, fn func() error) error {
	if g.degraded.Load() {
		return entities.ErrLockUnusable
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.run(op, fn)
}

// Write runs fn while holding exclusive access.
func (g *Guard) Write(op string, fn func() error) error {
	if g.degraded.Load() {
		return entities.ErrLockUnusable
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	// A writer that was queued behind the panicking holder must not proceed.
	if g.degraded.Load() {
		return entities.ErrLockUnusable
	}
	return g.run(op, fn)
}

func (g *Guard) run(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.degraded.Store(true)
			g.logger.Errorw("Store lock poisoned by panic, restart required",
				"operation", op,
				"panic", fmt.Sprint(r),
			)
			err = fmt.Errorf("%w: %s panicked: %v", entities.ErrLockUnusable, op, r)
		}
	}()
	return fn()
}
