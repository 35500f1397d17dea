package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeTypedDelivery(t *testing.T) {
	bus := New()

	var got []Notification
	SubscribeTyped(bus, NotificationEvent, func(e EventT[Notification]) error {
		got = append(got, e.Data)
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), NotificationEvent, Notification{
		Variant: NotificationSuccess,
		Title:   "Login Successful",
	}))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Login Successful", got[0].Title)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	calls := 0
	unsubscribe := bus.Subscribe(SessionExpiredEvent, func(Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), SessionExpiredEvent, SessionExpired{})))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), SessionExpiredEvent, SessionExpired{})))

	assert.Equal(t, 1, calls)
}

func TestPublishCollectsHandlerErrors(t *testing.T) {
	bus := New()

	delivered := 0
	bus.Subscribe(NotificationEvent, func(Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(NotificationEvent, func(Event) error {
		delivered++
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), NotificationEvent, Notification{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 handler(s) failed")
	assert.Equal(t, 1, delivered, "a failing handler must not block the others")
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	bus := New()

	bus.Subscribe(NotificationEvent, func(Event) error {
		panic("handler exploded")
	})

	err := bus.Publish(NewEvent(context.Background(), NotificationEvent, Notification{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic")
}

func TestTypedHandlerSkipsMismatchedPayload(t *testing.T) {
	bus := New()

	calls := 0
	SubscribeTyped(bus, NotificationEvent, func(e EventT[Notification]) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), NotificationEvent, "not a notification")))
	assert.Equal(t, 0, calls)
}

func TestPublishRejectsCancelledContext(t *testing.T) {
	bus := New()
	bus.Subscribe(NotificationEvent, func(Event) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, NotificationEvent, Notification{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
