package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherPublish(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventLoginFailed, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	failure := errors.New("sink down")
	d.Subscribe(EventLoginFailed, func(context.Context, Event) error { return failure })

	err := d.Publish(context.Background(), Event{Type: EventLoginFailed, Payload: LoginFailedPayload{Username: "foobar"}})
	require.ErrorIs(t, err, failure)
	require.Len(t, got, 1)
	require.NotEmpty(t, got[0].ID)
	require.False(t, got[0].Timestamp.IsZero())

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTokenRejected}))
	require.Len(t, got, 1)
}
