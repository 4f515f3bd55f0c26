package preview

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// Rebuilder debounces change notifications and runs at most one rebuild at
// a time. Requests arriving during a rebuild collapse into one follow-up run.
type Rebuilder struct {
	build    func(context.Context) error
	debounce time.Duration
	logger   interfaces.Logger

	mu        sync.Mutex
	timer     *time.Timer
	scheduled bool
	running   bool
	pending   bool
	runs      int
}

// NewRebuilder wraps build with debouncing and coalescing.
func NewRebuilder(build func(context.Context) error, debounce time.Duration, logger interfaces.Logger) *Rebuilder {
	return &Rebuilder{build: build, debounce: debounce, logger: logger}
}

// Trigger schedules a rebuild once no further trigger arrives for the debounce window.
func (r *Rebuilder) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.scheduled = true
	r.timer = time.AfterFunc(r.debounce, r.request)
}

// Runs reports how many rebuilds have completed.
func (r *Rebuilder) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Wait blocks until no rebuild is running or scheduled, or ctx ends.
func (r *Rebuilder) Wait(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		r.mu.Lock()
		busy := r.scheduled || r.running || r.pending
		r.mu.Unlock()
		if !busy {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Rebuilder) request() {
	r.mu.Lock()
	r.scheduled = false
	if r.running {
		r.pending = true
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()
}

func (r *Rebuilder) loop() {
	for {
		start := time.Now()
		if err := r.build(context.Background()); err != nil {
			r.logger.Error("preview.rebuild.failed", "error", err)
		} else {
			r.logger.Info("preview.rebuild.completed", "duration", time.Since(start))
		}

		r.mu.Lock()
		r.runs++
		if r.pending {
			r.pending = false
			r.mu.Unlock()
			continue
		}
		r.running = false
		r.mu.Unlock()
		return
	}
}
