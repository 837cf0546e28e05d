// Package flow runs one cancellable task per screen. Starting a task supersedes the previous one.
package flow

import (
	"context"
	"sync"
	"time"
)

// Runner owns the in-flight task of a single screen.
type Runner struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Task is the handle a running function uses to touch the UI.
type Task struct {
	runner *Runner
	gen    uint64
}

// Start cancels the current task, if any, and runs fn in a new goroutine.
// Cancellation is cooperative: fn observes ctx and Commit refuses stale work.
func (r *Runner) Start(parent context.Context, fn func(ctx context.Context, t *Task)) {
	r.mu.Lock()
	r.gen++
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	t := &Task{runner: r, gen: r.gen}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer cancel()
		fn(ctx, t)
	}()
}

// Stop cancels the current task without starting another one.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Wait blocks until every started task has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Current reports whether t is still the screen's task.
func (t *Task) Current() bool {
	t.runner.mu.Lock()
	defer t.runner.mu.Unlock()
	return t.runner.gen == t.gen
}

// Commit runs fn only while t is the current task. Start and Stop wait for a running
// Commit, so nothing a superseded task renders can land after its replacement began.
func (t *Task) Commit(fn func()) bool {
	t.runner.mu.Lock()
	defer t.runner.mu.Unlock()

	if t.runner.gen != t.gen {
		return false
	}
	fn()
	return true
}

// Yield is a suspension point between staged steps. It reports false once the task is cancelled.
func (t *Task) Yield(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil && t.Current()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return t.Current()
	}
}
