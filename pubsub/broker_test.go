package pubsub

import (
	"context"
	"testing"
	"time"
)

func TestBrokerFlow(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := broker.Subscribe(ctx)

	received := make(chan string, 1)
	go func() {
		for event := range events {
			if event.Type == CreatedEvent {
				received <- event.Payload
			}
		}
	}()

	const testMsg = "hello pubsub"
	broker.Publish(CreatedEvent, testMsg)

	select {
	case msg := <-received:
		if msg != testMsg {
			t.Errorf("expected %s, got %s", testMsg, msg)
		}
	case <-time.After(1 * time.Second):
		t.Error("timed out waiting for the published event")
	}
}

func TestAutoUnsubscribe(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())

	_ = broker.Subscribe(ctx)
	if broker.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", broker.SubscriberCount())
	}

	cancel()

	// Give the cleanup goroutine a moment to run.
	time.Sleep(10 * time.Millisecond)

	if broker.SubscriberCount() != 0 {
		t.Errorf("subscriber not removed after context cancel, count: %d", broker.SubscriberCount())
	}
}

func TestNonBlockingPublish(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Shutdown()

	ctx := context.Background()
	// Subscriber that never reads; its buffer fills after 64 events.
	_ = broker.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			broker.Publish(CreatedEvent, i)
		}
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("Publish blocked on a slow subscriber")
	}
}

func TestBrokerShutdown(t *testing.T) {
	broker := NewBroker[string]()
	ctx := context.Background()

	events := broker.Subscribe(ctx)

	broker.Shutdown()

	select {
	case _, ok := <-events:
		if ok {
			t.Error("subscriber channel still open after shutdown")
		}
	case <-time.After(1 * time.Second):
		t.Error("subscriber channel not closed after shutdown")
	}
}

func TestSubscribeAfterShutdown(t *testing.T) {
	broker := NewBroker[string]()
	broker.Shutdown()

	events := broker.Subscribe(context.Background())
	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected a closed channel from a shut-down broker")
		}
	case <-time.After(1 * time.Second):
		t.Error("channel from a shut-down broker must be closed immediately")
	}

	// Publishing after shutdown is a no-op, not a panic.
	broker.Publish(CreatedEvent, "ignored")
}
