package watch

import (
	"context"
	"sync"
	"time"

	"aoewatch/internal/logging"
	"aoewatch/internal/status"
)

// Observer receives the report of every completed cycle.
type Observer interface {
	ObserveReport(*Report)
}

// Watcher runs cycles on a fixed interval until the context is cancelled.
// Cycles are serialized: a slow cycle delays the next tick rather than
// overlapping it.
type Watcher struct {
	runner   *Runner
	interval time.Duration

	mu        sync.Mutex
	last      *Report
	observers []Observer
}

// NewWatcher creates a watcher around a runner.
func NewWatcher(runner *Runner, interval time.Duration) *Watcher {
	return &Watcher{runner: runner, interval: interval}
}

// AddObserver registers an observer for completed cycles.
func (w *Watcher) AddObserver(o Observer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers = append(w.observers, o)
}

// Run executes one cycle immediately, then one per interval, blocking
// until ctx is done. Cycle errors are logged; the loop keeps going.
func (w *Watcher) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("watcher starting", "interval", w.interval.String())

	interval := w.interval
	if interval <= 0 {
		interval = time.Minute
	}

	w.runCycle(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runCycle(ctx)
		case <-ctx.Done():
			log.Info("watcher stopping")
			return
		}
	}
}

// CheckNow triggers an immediate cycle, serialized against the ticker.
func (w *Watcher) CheckNow(ctx context.Context) (*Report, error) {
	return w.runCycle(ctx)
}

// LastReport returns the most recent completed report, or nil before the
// first cycle finishes.
func (w *Watcher) LastReport() *Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Snapshot returns the snapshot of the most recent cycle.
func (w *Watcher) Snapshot() status.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return status.Snapshot{}
	}
	return w.last.Snapshot.Clone()
}

func (w *Watcher) runCycle(ctx context.Context) (*Report, error) {
	w.mu.Lock()
	observers := make([]Observer, len(w.observers))
	copy(observers, w.observers)
	w.mu.Unlock()

	report, err := w.runner.RunOnce(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("cycle failed", "error", err)
		return report, err
	}

	w.mu.Lock()
	w.last = report
	w.mu.Unlock()

	for _, o := range observers {
		o.ObserveReport(report)
	}
	return report, nil
}
