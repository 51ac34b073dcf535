package repository

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/infrastructure/logger"
)

func TestGuardPassesThroughErrors(t *testing.T) {
	g := NewGuard(logger.NewNop())
	sentinel := errors.New("nope")

	assert.ErrorIs(t, g.Read("read", func() error { return sentinel }), sentinel)
	assert.ErrorIs(t, g.Write("write", func() error { return sentinel }), sentinel)
	assert.True(t, g.Usable(), "ordinary errors do not degrade the guard")
}

func TestGuardReadersShareAccess(t *testing.T) {
	g := NewGuard(logger.NewNop())

	const readers = 4
	var arrived sync.WaitGroup
	arrived.Add(readers)
	release := make(chan struct{})

	var done sync.WaitGroup
	for i := 0; i < readers; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			_ = g.Read("read", func() error {
				arrived.Done()
				<-release
				return nil
			})
		}()
	}

	// Every reader must be inside the section at the same time for this to return.
	arrived.Wait()
	close(release)
	done.Wait()
}

func TestGuardPanicDegrades(t *testing.T) {
	g := NewGuard(logger.NewNop())

	err := g.Write("explode", func() error { panic("boom") })
	require.ErrorIs(t, err, entities.ErrLockUnusable)
	assert.Contains(t, err.Error(), "explode")
	assert.False(t, g.Usable())

	called := false
	assert.ErrorIs(t, g.Read("read", func() error { called = true; return nil }), entities.ErrLockUnusable)
	assert.ErrorIs(t, g.Write("write", func() error { called = true; return nil }), entities.ErrLockUnusable)
	assert.False(t, called)
}

func TestGuardPanicInReaderDegrades(t *testing.T) {
	g := NewGuard(logger.NewNop())

	err := g.Read("explode", func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	assert.ErrorIs(t, err, entities.ErrLockUnusable)
	assert.False(t, g.Usable())
}

func TestGuardQueuedWriterSeesDegradation(t *testing.T) {
	g := NewGuard(logger.NewNop())

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = g.Write("explode", func() error {
			close(entered)
			<-release
			panic("boom")
		})
	}()
	<-entered

	result := make(chan error, 1)
	ran := false
	go func() {
		result <- g.Write("queued", func() error { ran = true; return nil })
	}()

	close(release)
	assert.ErrorIs(t, <-result, entities.ErrLockUnusable)
	assert.False(t, ran)
}
