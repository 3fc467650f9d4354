package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventUserRegistered, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventUserRegistered, ActorIdentity: "juan"})
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.Equal(t, "juan", received[0].ActorIdentity)
}

func TestDispatcherIgnoresUnrelatedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(EventUserDeleted, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventUserRegistered}))
	require.Zero(t, calls)
}

func TestDispatcherContinuesPastHandlerErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(EventUserLoginFailed, func(context.Context, Event) error {
		return errors.New("handler blew up")
	})
	dispatcher.Subscribe(EventUserLoginFailed, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventUserLoginFailed}))
	require.Equal(t, 1, calls)
}
