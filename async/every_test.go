package async_test

import (
	"context"
	"testing"
	"time"

	"github.com/prysmaticlabs/lean/async"
	"github.com/prysmaticlabs/lean/testing/require"
)

func TestRunEvery_TicksUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 64)
	async.RunEvery(ctx, 20*time.Millisecond, func() {
		calls <- struct{}{}
	})

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatalf("Periodic function ran %d times, want at least 2", i)
		}
	}

	cancel()
	// Allow a tick already in flight to land before draining.
	time.Sleep(60 * time.Millisecond)
	for len(calls) > 0 {
		<-calls
	}
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, len(calls), "Periodic function ran after cancellation")
}
