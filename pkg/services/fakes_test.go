package services

import (
	"context"
	"sync"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/status"
	"github.com/dskvich/vetaid-telegram-bot/pkg/view"
)

type fakeSurface struct {
	mu      sync.Mutex
	next    view.Handle
	live    map[view.Handle]view.View
	order   []view.Handle
	created []view.View
}

func (s *fakeSurface) Create(_ context.Context, v view.View) (view.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.live[s.next] = v
	s.order = append(s.order, s.next)
	s.created = append(s.created, v)
	return s.next, nil
}

func (s *fakeSurface) Destroy(_ context.Context, h view.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, h)
	return nil
}

// Live returns the views still shown, in creation order.
func (s *fakeSurface) Live() []view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []view.View
	for _, h := range s.order {
		if v, ok := s.live[h]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *fakeSurface) Created() []view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]view.View{}, s.created...)
}

type fakeLabel struct {
	mu      sync.Mutex
	text    string
	history []string
}

func (l *fakeLabel) SetText(_ context.Context, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
	l.history = append(l.history, text)
}

func (l *fakeLabel) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func (l *fakeLabel) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.history...)
}

type fakeHost struct {
	mu       sync.Mutex
	surfaces map[int64]*fakeSurface
	labels   map[int64]*fakeLabel
}

func newFakeHost() *fakeHost {
	return &fakeHost{surfaces: map[int64]*fakeSurface{}, labels: map[int64]*fakeLabel{}}
}

func (h *fakeHost) Surface(chatID int64) view.Factory {
	return h.surface(chatID)
}

func (h *fakeHost) StatusLabel(chatID int64) status.Label {
	return h.label(chatID)
}

func (h *fakeHost) surface(chatID int64) *fakeSurface {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.surfaces[chatID]; !ok {
		h.surfaces[chatID] = &fakeSurface{live: map[view.Handle]view.View{}}
	}
	return h.surfaces[chatID]
}

func (h *fakeHost) label(chatID int64) *fakeLabel {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.labels[chatID]; !ok {
		h.labels[chatID] = &fakeLabel{}
	}
	return h.labels[chatID]
}

type fakeAdvisor struct {
	mu      sync.Mutex
	calls   []string
	answers map[string]string
	err     error
	block   chan struct{}
}

func (a *fakeAdvisor) Advise(ctx context.Context, _ domain.PendingImage, injury string) (string, error) {
	a.mu.Lock()
	a.calls = append(a.calls, injury)
	block := a.block
	a.mu.Unlock()

	if block != nil && injury == "slow" {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if a.err != nil {
		return "", a.err
	}
	return a.answers[injury], nil
}

func (a *fakeAdvisor) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string{}, a.calls...)
}

type fakeSearcher struct {
	mu      sync.Mutex
	calls   int
	results [][]domain.PlaceResult
	err     error
	gate    chan struct{}
}

func (s *fakeSearcher) SearchNearby(ctx context.Context, _ domain.Location) ([]domain.PlaceResult, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	gate := s.gate
	s.mu.Unlock()

	if call == 0 && gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.results[call], nil
}

type fakeLocator struct {
	loc   *domain.Location
	saved []domain.Location
}

func (l *fakeLocator) Locate(context.Context, int64) (domain.Location, error) {
	if l.loc == nil {
		return domain.Location{}, domain.ErrNotFound
	}
	return *l.loc, nil
}

func (l *fakeLocator) Remember(_ context.Context, _ int64, loc domain.Location) error {
	l.saved = append(l.saved, loc)
	l.loc = &loc
	return nil
}

func (l *fakeLocator) Describe(loc domain.Location) string {
	return "Using your location: " + loc.String()
}

type fakePrompter struct {
	mu    sync.Mutex
	texts []string
}

func (p *fakePrompter) RequestLocation(_ context.Context, _ int64, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts = append(p.texts, text)
	return nil
}

type fakeDirectory struct {
	records []domain.VolunteerRecord
	err     error
	calls   int
}

func (d *fakeDirectory) FetchVolunteers(context.Context) ([]domain.VolunteerRecord, error) {
	d.calls++
	return d.records, d.err
}

func texts(views []view.View) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Text)
	}
	return out
}
