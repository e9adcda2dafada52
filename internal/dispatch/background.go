package dispatch

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Background runs detached delivery tasks. The webhook handler acknowledges
// the platform first and schedules the remaining work here; nothing is
// reported back to the original caller, so task errors terminate in the
// delivery log and the diagnostic logger.
type Background struct {
	log zerolog.Logger
	wg  sync.WaitGroup
}

// NewBackground builds a Background runner.
func NewBackground(log zerolog.Logger) *Background {
	return &Background{log: log}
}

// Go schedules fn on its own goroutine. The task gets a fresh context:
// there is no cancellation for in-flight dispatch, only the per-call
// timeout the HTTP client enforces. Panics are recovered and logged.
func (b *Background) Go(name string, fn func(ctx context.Context)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.log.Error().
					Str("task", name).
					Any("panic", r).
					Str("stack", string(debug.Stack())).
					Msg("panic in background task")
			}
		}()
		fn(context.Background())
	}()
}

// Drain waits for in-flight tasks to finish, up to timeout. Used at
// shutdown so accepted work gets a chance to complete.
func (b *Background) Drain(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
