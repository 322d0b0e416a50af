package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var order []int
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 2)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.event"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("handlers ran out of order: %v", order)
	}
}

func TestPublishSyncReturnsFirstError(t *testing.T) {
	bus := NewInMemoryBus(nil)
	wantErr := errors.New("boom")

	var secondRan bool
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		return wantErr
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		secondRan = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.event"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped boom error, got %v", err)
	}
	if secondRan {
		t.Fatal("second handler should not run after first fails")
	}
}

func TestPublishIsFireAndForget(t *testing.T) {
	bus := NewInMemoryBus(nil)

	done := make(chan struct{})
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		close(done)
		return errors.New("handler failure must not reach publisher")
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "test.event"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler never ran")
	}
}

// Async handlers get a detached context: cancelling the publisher's request
// context must not cancel an in-flight side effect.
func TestPublishDetachesFromCallerContext(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var sawCancelled atomic.Bool
	done := make(chan struct{})
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, _ Event) error {
		defer close(done)
		select {
		case <-ctx.Done():
			sawCancelled.Store(true)
		case <-time.After(100 * time.Millisecond):
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{NewBaseEvent(), "test.event"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler never ran")
	}
	if sawCancelled.Load() {
		t.Fatal("handler context was cancelled by the publisher's context")
	}
}

func TestPublishNoSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"})
}
