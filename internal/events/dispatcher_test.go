package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	var failures []error
	d := NewInMemoryDispatcher(func(_ Event, err error) { failures = append(failures, err) })

	var seen []string
	d.Subscribe(EventTaskReassigned, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.ID)
		return errors.New("handler failed")
	})
	d.Subscribe(EventTaskReassigned, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.ID)
		return nil
	})
	d.Subscribe(EventTaskAutoAssigned, func(_ context.Context, e Event) error {
		seen = append(seen, "other:"+e.ID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{ID: "1", Type: EventTaskReassigned}))

	assert.Equal(t, []string{"first:1", "second:1"}, seen)
	require.Len(t, failures, 1)
	assert.EqualError(t, failures[0], "handler failed")
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventReassignmentCompleted}))
}

func TestDispatcherStampsMissingFields(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got Event
	d.Subscribe(EventTaskAutoAssigned, func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTaskAutoAssigned}))
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Timestamp.IsZero())

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, d.Publish(context.Background(), Event{ID: "keep", Type: EventTaskAutoAssigned, Timestamp: ts}))
	assert.Equal(t, "keep", got.ID)
	assert.Equal(t, ts, got.Timestamp)
}

func TestDispatcherRejectsUntypedEvents(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.ErrorIs(t, d.Publish(context.Background(), Event{ID: "x"}), ErrMissingType)
}
