package repository

import (
	"sync"
	"time"
)

// Closer is implemented by session state that owns timers or running tasks.
type Closer interface {
	Close()
}

type sessionEntry[T any] struct {
	state      T
	lastAccess time.Time
}

// SessionRepository keeps per chat screen state and drops it after ttl of inactivity.
type SessionRepository[T any] struct {
	mu       sync.Mutex
	sessions map[int64]sessionEntry[T]
	ttl      time.Duration
	newState func(chatID int64) T
	now      func() time.Time
}

func NewSessionRepository[T any](ttl time.Duration, newState func(chatID int64) T) *SessionRepository[T] {
	return &SessionRepository[T]{
		sessions: make(map[int64]sessionEntry[T]),
		ttl:      ttl,
		newState: newState,
		now:      time.Now,
	}
}

// Get returns the chat's state, creating a fresh one when missing or expired.
// An expired state is closed before Get returns, outside the repository lock.
func (r *SessionRepository[T]) Get(chatID int64) T {
	r.mu.Lock()

	now := r.now()
	entry, ok := r.sessions[chatID]
	var expired []T
	if ok && r.expired(entry, now) {
		expired = append(expired, entry.state)
		ok = false
	}
	if !ok {
		entry = sessionEntry[T]{state: r.newState(chatID)}
	}

	entry.lastAccess = now
	r.sessions[chatID] = entry
	r.mu.Unlock()

	closeStates(expired)
	return entry.state
}

// Clear drops the chat's state.
func (r *SessionRepository[T]) Clear(chatID int64) {
	r.mu.Lock()
	entry, ok := r.sessions[chatID]
	delete(r.sessions, chatID)
	r.mu.Unlock()

	if ok {
		closeStates([]T{entry.state})
	}
}

// Sweep drops every expired session and returns how many were removed.
func (r *SessionRepository[T]) Sweep() int {
	r.mu.Lock()
	now := r.now()
	var expired []T
	for chatID, entry := range r.sessions {
		if r.expired(entry, now) {
			expired = append(expired, entry.state)
			delete(r.sessions, chatID)
		}
	}
	r.mu.Unlock()

	closeStates(expired)
	return len(expired)
}

func (r *SessionRepository[T]) expired(entry sessionEntry[T], now time.Time) bool {
	return r.ttl > 0 && now.Sub(entry.lastAccess) > r.ttl
}

func closeStates[T any](states []T) {
	for _, state := range states {
		if c, ok := any(state).(Closer); ok {
			c.Close()
		}
	}
}
