package toolchain

import (
	"context"
	"sync"

	"github.com/thomas-vilte/repocheck/internal/logger"
)

// Failures collects the units a strategy could not evaluate because the
// toolchain itself did not run, as opposed to the student's code failing.
// Safe for concurrent use by worker pool tasks.
type Failures struct {
	mu    sync.Mutex
	units []string
}

type failuresKey struct{}

// TrackFailures returns a context under which RecordFailure calls land in
// the returned Failures.
func TrackFailures(ctx context.Context) (context.Context, *Failures) {
	f := &Failures{}
	return context.WithValue(ctx, failuresKey{}, f), f
}

// RecordFailure notes that unit was not evaluated because of err. It is a
// no-op when ctx is not tracked.
func RecordFailure(ctx context.Context, unit string, err error) {
	f, ok := ctx.Value(failuresKey{}).(*Failures)
	if !ok {
		return
	}
	logger.Debug(ctx, "unit not evaluated", "unit", unit, "error", err)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.units = append(f.units, unit)
}

// Any reports whether at least one unit was recorded.
func (f *Failures) Any() bool {
	if f == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.units) > 0
}

// Units returns the recorded units in recording order.
func (f *Failures) Units() []string {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.units...)
}
