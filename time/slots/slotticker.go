// Package slots includes ticker and timer-related functions for the lean chain.
package slots

import (
	"time"

	"github.com/prysmaticlabs/lean/consensus-types/primitives"
)

// Tick is a single interval boundary of the slot clock.
type Tick struct {
	Slot     primitives.Slot
	Interval uint64
	// Time is the unix time of the boundary in seconds.
	Time uint64
}

// The Ticker interface defines a type which can expose a
// receive-only channel firing interval events.
type Ticker interface {
	C() <-chan Tick
	Done()
}

// IntervalTicker is a special ticker for the lean chain block.
// The channel emits over every interval boundary of every slot,
// starting with the next boundary after the ticker was created.
type IntervalTicker struct {
	c    chan Tick
	done chan struct{}
}

// C returns the ticker channel. Call Cancel afterwards to ensure
// that the goroutine exits cleanly.
func (s *IntervalTicker) C() <-chan Tick {
	return s.c
}

// Done should be called to clean up the ticker.
func (s *IntervalTicker) Done() {
	go func() {
		s.done <- struct{}{}
	}()
}

// NewIntervalTicker starts and returns a new IntervalTicker instance.
func NewIntervalTicker(genesisTime time.Time, secondsPerSlot, intervalsPerSlot uint64) *IntervalTicker {
	if genesisTime.IsZero() {
		panic("zero genesis time")
	}
	if intervalsPerSlot == 0 {
		intervalsPerSlot = 1
	}
	ticker := &IntervalTicker{
		c:    make(chan Tick),
		done: make(chan struct{}),
	}
	ticker.start(genesisTime, secondsPerSlot, intervalsPerSlot, timeSince, timeUntil, time.After)
	return ticker
}

func (s *IntervalTicker) start(
	genesisTime time.Time,
	secondsPerSlot, intervalsPerSlot uint64,
	since, until func(time.Time) time.Duration,
	after func(time.Duration) <-chan time.Time) {

	d := time.Duration(secondsPerSlot) * time.Second / time.Duration(intervalsPerSlot)

	go func() {
		sinceGenesis := since(genesisTime)

		var nextTickTime time.Time
		var index uint64
		if sinceGenesis < d {
			// Handle when the current time is before the genesis time.
			nextTickTime = genesisTime
			index = 0
		} else {
			nextTick := sinceGenesis.Truncate(d) + d
			nextTickTime = genesisTime.Add(nextTick)
			index = uint64(nextTick / d)
		}

		for {
			waitTime := until(nextTickTime)
			select {
			case <-after(waitTime):
				tick := Tick{
					Slot:     primitives.Slot(index / intervalsPerSlot),
					Interval: index % intervalsPerSlot,
					Time:     uint64(nextTickTime.Unix()),
				}
				select {
				case s.c <- tick:
				case <-s.done:
					return
				}
				index++
				nextTickTime = nextTickTime.Add(d)
			case <-s.done:
				return
			}
		}
	}()
}

// timeSince and timeUntil are swappable in tests.
var (
	timeSince = time.Since
	timeUntil = time.Until
)
