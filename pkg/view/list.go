package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// List keeps track of the item views it rendered so that a new result set replaces the old one.
type List struct {
	factory Factory
	edge    Edge

	mu      sync.Mutex
	handles []Handle
}

func NewList(factory Factory, edge Edge) *List {
	return &List{factory: factory, edge: edge}
}

// Clear destroys every rendered item and runs a layout pass. Clearing an empty list is a no-op.
func (l *List) Clear(ctx context.Context) error {
	l.mu.Lock()
	handles := l.handles
	l.handles = nil
	l.mu.Unlock()

	if len(handles) == 0 {
		return nil
	}

	var result error
	for _, h := range handles {
		if err := l.factory.Destroy(ctx, h); err != nil {
			result = multierror.Append(result, fmt.Errorf("destroying view %d: %w", h, err))
		}
	}

	l.relayout(ctx)
	return result
}

// Append creates one item view after the existing ones.
func (l *List) Append(ctx context.Context, v View) error {
	h, err := l.factory.Create(ctx, v)
	if err != nil {
		return fmt.Errorf("creating %s view: %w", v.Kind, err)
	}

	l.mu.Lock()
	l.handles = append(l.handles, h)
	l.mu.Unlock()
	return nil
}

// Finish lays the container out and scrolls it to the list's edge.
func (l *List) Finish(ctx context.Context) {
	if lay, ok := l.factory.(Layouter); ok {
		lay.Relayout(ctx)
		lay.ScrollTo(ctx, l.edge)
	}
}

// Render replaces the current items with views, keeping their order.
func (l *List) Render(ctx context.Context, views []View) error {
	var result error
	if err := l.Clear(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	l.relayout(ctx)

	for _, v := range views {
		if err := l.Append(ctx, v); err != nil {
			result = multierror.Append(result, err)
		}
	}

	l.Finish(ctx)
	return result
}

func (l *List) relayout(ctx context.Context) {
	if lay, ok := l.factory.(Layouter); ok {
		lay.Relayout(ctx)
	}
}
