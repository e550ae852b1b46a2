package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) {
		received = append(received, event)
	})

	dispatcher.Publish(context.Background(), Event{
		ID:       "evt-1",
		Type:     EventTicketCreated,
		TicketID: "ticket-1",
		Payload:  TicketCreatedPayload{Title: "Login broken"},
	})

	require.Len(t, received, 1)
	assert.Equal(t, "evt-1", received[0].ID)
	assert.Equal(t, "ticket-1", received[0].TicketID)
	payload, ok := received[0].Payload.(TicketCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, "Login broken", payload.Title)
}

func TestDispatcherFansOutToAllHandlers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	first, second := 0, 0
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) { first++ })
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) { second++ })

	dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged})
	dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged})

	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestDispatcherIgnoresUnrelatedEventTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) { calls++ })

	dispatcher.Publish(context.Background(), Event{Type: EventClassificationSuggested})

	assert.Zero(t, calls)
}

func TestDispatcherPublishWithoutSubscribersIsNoOp(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	assert.NotPanics(t, func() {
		dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated})
	})
}
