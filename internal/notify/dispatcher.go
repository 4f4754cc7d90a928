package notify

import (
	"context"

	"sprint-board-api/internal/domain"
)

// Dispatcher delivers item update events to their consumers. Failures are
// logged by the implementation and never surface to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, event domain.ItemUpdateEvent)
}

// MultiDispatcher fans an event out to every sink in order
type MultiDispatcher []Dispatcher

// Dispatch implements Dispatcher
func (m MultiDispatcher) Dispatch(ctx context.Context, event domain.ItemUpdateEvent) {
	for _, d := range m {
		if d != nil {
			d.Dispatch(ctx, event)
		}
	}
}

// NoOpDispatcher drops every event
type NoOpDispatcher struct{}

// Dispatch implements Dispatcher
func (NoOpDispatcher) Dispatch(context.Context, domain.ItemUpdateEvent) {}

// DispatcherFunc adapts a function to Dispatcher
type DispatcherFunc func(ctx context.Context, event domain.ItemUpdateEvent)

// Dispatch implements Dispatcher
func (f DispatcherFunc) Dispatch(ctx context.Context, event domain.ItemUpdateEvent) {
	f(ctx, event)
}
