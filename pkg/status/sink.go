// Package status shows transient feedback messages that may clear themselves.
package status

import (
	"context"
	"sync"
	"time"
)

// Label is where status text ends up. An empty text clears it.
type Label interface {
	SetText(ctx context.Context, text string)
}

// Sink writes status messages to a label. At most one pending clear exists at a time
// and every new message cancels it.
type Sink struct {
	label Label

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

func NewSink(label Label) *Sink {
	return &Sink{label: label}
}

// SetStatus shows message immediately. A positive autoClearAfter schedules clearing the label
// unless another SetStatus happens first.
func (s *Sink) SetStatus(ctx context.Context, message string, autoClearAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.stopTimer()

	s.label.SetText(ctx, message)

	if autoClearAfter <= 0 {
		return
	}

	gen := s.gen
	clearCtx := context.WithoutCancel(ctx)
	s.timer = time.AfterFunc(autoClearAfter, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// A timer that fired while a newer SetStatus held the lock must not clear its message.
		if s.gen != gen {
			return
		}
		s.timer = nil
		s.label.SetText(clearCtx, "")
	})
}

// Close cancels a pending clear.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.stopTimer()
}

func (s *Sink) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
