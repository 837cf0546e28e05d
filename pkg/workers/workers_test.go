package workers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type funcWorker struct {
	name  string
	start func(ctx context.Context) error
}

func (f funcWorker) Name() string                    { return f.name }
func (f funcWorker) Start(ctx context.Context) error { return f.start(ctx) }

func TestGroupStopsOnFirstError(t *testing.T) {
	g := Group{
		funcWorker{name: "failing", start: func(context.Context) error { return errors.New("boom") }},
		funcWorker{name: "waiting", start: func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}},
	}

	err := g.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing: boom")
}

func TestGroupReportsEveryFailure(t *testing.T) {
	g := Group{
		funcWorker{name: "api", start: func(context.Context) error { return errors.New("port in use") }},
		funcWorker{name: "telegram", start: func(ctx context.Context) error {
			<-ctx.Done()
			return errors.New("updates closed")
		}},
	}

	err := g.Start(context.Background())

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "api: port in use")
	assert.Contains(t, err.Error(), "telegram: updates closed")
}

func TestGroupStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := Group{funcWorker{name: "w", start: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}}}

	done := make(chan error)
	go func() { done <- g.Start(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}

type fakeTelegram struct {
	updates chan tgbotapi.Update

	mu     sync.Mutex
	texts  []string
	acked  []string
	typing []int64
}

func (f *fakeTelegram) GetUpdates() tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeTelegram) SendText(_ context.Context, _ int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
}

func (f *fakeTelegram) AcknowledgeCallback(_ context.Context, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, id)
}

func (f *fakeTelegram) StartTyping(_ context.Context, chatID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = append(f.typing, chatID)
}

type allowList map[int64]bool

func (a allowList) IsAuthorized(userID int64) bool { return a[userID] }

type recordingHandler struct {
	mu      sync.Mutex
	handled []int
	chatIDs []int64
}

func (h *recordingHandler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	requestID, _ := logger.RequestIDFromContext(ctx)
	chatID, _ := logger.ChatIDFromContext(ctx)
	h.handled = append(h.handled, requestID)
	h.chatIDs = append(h.chatIDs, chatID)
}

func TestTelegramUpdateListener(t *testing.T) {
	tg := &fakeTelegram{updates: make(chan tgbotapi.Update)}
	handler := &recordingHandler{}
	listener, err := NewTelegramUpdateListener(tg, allowList{7: true}, handler)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- listener.Start(ctx) }()

	tg.updates <- tgbotapi.Update{UpdateID: 1, Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42}, From: &tgbotapi.User{ID: 7}, Text: "hi",
	}}
	tg.updates <- tgbotapi.Update{UpdateID: 2, Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 43}, From: &tgbotapi.User{ID: 8}, Text: "hi",
	}}
	tg.updates <- tgbotapi.Update{UpdateID: 3, CallbackQuery: &tgbotapi.CallbackQuery{
		ID: "cb", From: &tgbotapi.User{ID: 7}, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
	}}

	require.Eventually(t, func() bool {
		tg.mu.Lock()
		defer tg.mu.Unlock()
		return len(tg.acked) == 1 && len(tg.texts) == 1
	}, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.ElementsMatch(t, []int{1, 3}, handler.handled)
	assert.ElementsMatch(t, []int64{42, 42}, handler.chatIDs)
	assert.Equal(t, []string{"User ID 8 is not authorized"}, tg.texts)
	assert.ElementsMatch(t, []int64{42, 43}, tg.typing)
}

func TestAPIServerServesUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv, err := NewAPIServer(ln.Addr().String(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- srv.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))
	http.DefaultClient.CloseIdleConnections()

	cancel()
	assert.NoError(t, <-done)
}

type countingSweeper struct{ n atomic.Int32 }

func (c *countingSweeper) Sweep() int {
	c.n.Add(1)
	return 1
}

func TestSessionSweeper(t *testing.T) {
	a, b := &countingSweeper{}, &countingSweeper{}
	sweeper, err := NewSessionSweeper(time.Millisecond, a, b)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- sweeper.Start(ctx) }()

	assert.Eventually(t, func() bool { return a.n.Load() >= 2 && b.n.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestSessionSweeperRejectsNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		_, err := NewSessionSweeper(interval, &countingSweeper{})
		assert.Error(t, err, interval.String())
	}
}
