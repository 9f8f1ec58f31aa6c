package eventbus

import (
	"context"
	"testing"
)

type testEvent struct {
	N int
}

func TestSubscribePublishUnsubscribe(t *testing.T) {
	Use(New())
	defer Use(nil)

	var got []int
	unsubscribe := Subscribe(func(ctx context.Context, e testEvent) {
		got = append(got, e.N)
	})

	Publish(context.Background(), testEvent{N: 1})
	Publish(context.Background(), testEvent{N: 2})
	unsubscribe()
	Publish(context.Background(), testEvent{N: 3})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestPublishWithoutBusIsNoop(t *testing.T) {
	Use(nil)
	Publish(context.Background(), testEvent{N: 1}) // must not panic
	unsubscribe := Subscribe(func(ctx context.Context, e testEvent) {})
	unsubscribe()
}
