package slots

import (
	"testing"
	"time"

	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/testing/require"
)

var _ Ticker = (*IntervalTicker)(nil)

func TestIntervalTicker(t *testing.T) {
	ticker := &IntervalTicker{
		c:    make(chan Tick),
		done: make(chan struct{}),
	}
	defer ticker.Done()

	var sinceDuration time.Duration
	since := func(time.Time) time.Duration {
		return sinceDuration
	}

	var untilDuration time.Duration
	until := func(time.Time) time.Duration {
		return untilDuration
	}

	var tick chan time.Time
	after := func(time.Duration) <-chan time.Time {
		return tick
	}

	genesisTime := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	secondsPerSlot := uint64(8)

	// Test when the ticker starts immediately after genesis time.
	sinceDuration = 1 * time.Second
	untilDuration = 1 * time.Second
	// Make this a buffered channel to prevent a deadlock since
	// the other goroutine calls a function in this goroutine.
	tick = make(chan time.Time, 4)
	ticker.start(genesisTime, secondsPerSlot, 4, since, until, after)

	want := []Tick{
		{Slot: 0, Interval: 0, Time: uint64(genesisTime.Unix())},
		{Slot: 0, Interval: 1, Time: uint64(genesisTime.Unix()) + 2},
		{Slot: 0, Interval: 2, Time: uint64(genesisTime.Unix()) + 4},
		{Slot: 0, Interval: 3, Time: uint64(genesisTime.Unix()) + 6},
		{Slot: 1, Interval: 0, Time: uint64(genesisTime.Unix()) + 8},
	}
	for _, w := range want {
		tick <- time.Now()
		require.Equal(t, w, <-ticker.C())
	}
}

func TestIntervalTicker_MidChain(t *testing.T) {
	ticker := &IntervalTicker{
		c:    make(chan Tick),
		done: make(chan struct{}),
	}
	defer ticker.Done()

	since := func(time.Time) time.Duration {
		return 13 * time.Second
	}
	until := func(time.Time) time.Duration {
		return time.Second
	}
	tick := make(chan time.Time, 2)
	after := func(time.Duration) <-chan time.Time {
		return tick
	}

	genesisTime := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	ticker.start(genesisTime, 4, 4, since, until, after)

	// 13 seconds in, the next boundary is slot 3 interval 2.
	tick <- time.Now()
	got := <-ticker.C()
	require.Equal(t, primitives.Slot(3), got.Slot)
	require.Equal(t, uint64(2), got.Interval)
	require.Equal(t, uint64(genesisTime.Unix())+14, got.Time)

	tick <- time.Now()
	got = <-ticker.C()
	require.Equal(t, primitives.Slot(3), got.Slot)
	require.Equal(t, uint64(3), got.Interval)
}

func TestIntervalTicker_Genesis(t *testing.T) {
	ticker := &IntervalTicker{
		c:    make(chan Tick),
		done: make(chan struct{}),
	}
	defer ticker.Done()

	since := func(time.Time) time.Duration {
		return -1 * time.Second
	}
	until := func(time.Time) time.Duration {
		return time.Second
	}
	tick := make(chan time.Time, 1)
	after := func(time.Duration) <-chan time.Time {
		return tick
	}
	genesisTime := time.Now().Add(time.Second)
	ticker.start(genesisTime, 4, 4, since, until, after)

	tick <- time.Now()
	got := <-ticker.C()
	require.Equal(t, primitives.Slot(0), got.Slot)
	require.Equal(t, uint64(0), got.Interval)
}
