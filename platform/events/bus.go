package events

import (
	"context"
	"sync"
	"time"

	"practicedesk_backend/platform/logger"
)

// asyncHandlerTimeout bounds best-effort handlers so a slow side effect
// (activity recording, notification dispatch) never blocks indefinitely.
const asyncHandlerTimeout = 5 * time.Second

// InMemoryBus is a simple in-process event bus. Asynchronous publishing is
// fire-and-forget: handler errors are logged and never propagated to the
// publisher, so the mutation that preceded the event stays committed.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all handlers asynchronously. Each handler
// runs in its own goroutine with a detached, timeout-bounded context so that
// request cancellation does not abort an already-committed side effect.
func (b *InMemoryBus) Publish(_ context.Context, event Event) {
	for _, handler := range b.snapshot(event.EventName()) {
		h := handler
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), asyncHandlerTimeout)
			defer cancel()

			if err := h.Handle(ctx, event); err != nil && b.log != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(),
					"error", err,
				)
			}
		}()
	}
}

// PublishSync dispatches the event to all handlers sequentially and returns
// the first handler error encountered.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	for _, handler := range b.snapshot(event.EventName()) {
		if err := handler.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (b *InMemoryBus) snapshot(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[eventName]...)
}

// Compile-time check that InMemoryBus implements Bus.
var _ Bus = (*InMemoryBus)(nil)
