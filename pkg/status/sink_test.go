package status

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingLabel struct {
	mu      sync.Mutex
	text    string
	history []string
}

func (l *recordingLabel) SetText(_ context.Context, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
	l.history = append(l.history, text)
}

func (l *recordingLabel) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.history...)
}

func (l *recordingLabel) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func TestSetStatusAutoClears(t *testing.T) {
	label := &recordingLabel{}
	sink := NewSink(label)

	sink.SetStatus(context.Background(), "Found 3 nearby clinics.", 20*time.Millisecond)
	assert.Equal(t, "Found 3 nearby clinics.", label.Text())

	assert.Eventually(t, func() bool { return label.Text() == "" }, time.Second, 5*time.Millisecond)
}

func TestSetStatusWithoutClearStays(t *testing.T) {
	label := &recordingLabel{}
	sink := NewSink(label)

	sink.SetStatus(context.Background(), "Searching for nearby clinics...", 0)

	assert.Never(t, func() bool { return label.Text() != "Searching for nearby clinics..." }, 60*time.Millisecond, 5*time.Millisecond)
}

func TestNewerStatusCancelsPendingClear(t *testing.T) {
	label := &recordingLabel{}
	sink := NewSink(label)

	sink.SetStatus(context.Background(), "x", 30*time.Millisecond)
	sink.SetStatus(context.Background(), "y", 0)

	assert.Never(t, func() bool { return label.Text() != "y" }, 100*time.Millisecond, 5*time.Millisecond)
}

func TestNewerStatusRestartsClearTimer(t *testing.T) {
	label := &recordingLabel{}
	sink := NewSink(label)

	sink.SetStatus(context.Background(), "first", 30*time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	sink.SetStatus(context.Background(), "second", 80*time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, "second", label.Text())

	assert.Eventually(t, func() bool { return label.Text() == "" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"first", "second", ""}, label.History())
}

func TestCloseCancelsPendingClear(t *testing.T) {
	label := &recordingLabel{}
	sink := NewSink(label)

	sink.SetStatus(context.Background(), "bye", 10*time.Millisecond)
	sink.Close()

	assert.Never(t, func() bool { return label.Text() == "" }, 50*time.Millisecond, 5*time.Millisecond)
}
