package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus(nil)
	var got Event
	bus.Subscribe(EventTypeUserSignedIn, func(ctx context.Context, event Event) error {
		got = event
		return nil
	})

	err := bus.Publish(context.Background(), NewBasicEvent(EventTypeUserSignedIn, map[string]string{"user_id": "user-123"}))
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, EventTypeUserSignedIn, got.Type())
}

func TestEventBus_HandlerErrorPropagates(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{})
	bus.Subscribe(EventTypeUserSignedUp, func(ctx context.Context, event Event) error {
		return errors.New("handler failed")
	})

	err := bus.Publish(context.Background(), NewBasicEvent(EventTypeUserSignedUp, nil))
	assert.Error(t, err)
}

func TestEventBus_AsyncPublish(t *testing.T) {
	bus := NewEventBusWithConfig(&noopLogger{}, BusConfig{AsyncProcessing: true})
	ch := make(chan struct{})
	bus.Subscribe(EventTypeSessionExpired, func(ctx context.Context, event Event) error {
		ch <- struct{}{}
		return nil
	})
	_ = bus.Publish(context.Background(), NewBasicEvent(EventTypeSessionExpired, nil))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for async event")
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe(EventTypeUserSignedOut, func(ctx context.Context, event Event) error { return nil })
	assert.Equal(t, 1, bus.GetSubscriberCount(EventTypeUserSignedOut))
	bus.Unsubscribe(EventTypeUserSignedOut)
	assert.Equal(t, 0, bus.GetSubscriberCount(EventTypeUserSignedOut))
}

func TestEventBus_GetEventTypes(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe(EventTypeUserSignedIn, func(ctx context.Context, event Event) error { return nil })
	bus.Subscribe(EventTypeSessionRejected, func(ctx context.Context, event Event) error { return nil })
	types := bus.GetEventTypes()
	assert.Contains(t, types, EventTypeUserSignedIn)
	assert.Contains(t, types, EventTypeSessionRejected)
}

func TestEventBus_PublishAndForget(t *testing.T) {
	bus := NewEventBus(nil)
	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(EventTypeUserSignedOut, func(ctx context.Context, event Event) error {
		wg.Done()
		return nil
	})
	bus.PublishAndForget(context.Background(), NewBasicEvent(EventTypeUserSignedOut, nil))
	wait := make(chan struct{})
	go func() {
		wg.Wait()
		close(wait)
	}()
	select {
	case <-wait:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for PublishAndForget")
	}
}
