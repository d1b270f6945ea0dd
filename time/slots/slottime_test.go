package slots

import (
	"testing"
	"time"

	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/testing/assert"
)

func fixedClock(t *testing.T, now time.Time) {
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() {
		timeNow = prev
	})
}

func TestStartTime(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	genesis := uint64(1000)
	assert.Equal(t, time.Unix(1000, 0), StartTime(genesis, 0))
	assert.Equal(t, time.Unix(int64(1000+5*params.BeaconConfig().SecondsPerSlot), 0), StartTime(genesis, 5))
}

func TestIntervalStart(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	cfg := params.BeaconConfig()
	got := IntervalStart(100, 2, 3)
	assert.Equal(t, 100+2*cfg.SecondsPerSlot+3*cfg.SecondsPerInterval(), got)
}

func TestCurrentSlot(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	sps := params.BeaconConfig().SecondsPerSlot
	now := time.Unix(10000, 0)
	fixedClock(t, now)

	tests := []struct {
		name    string
		genesis uint64
		want    primitives.Slot
	}{
		{name: "before genesis", genesis: 10001, want: 0},
		{name: "at genesis", genesis: 10000, want: 0},
		{name: "mid slot", genesis: 10000 - 3*sps - 1, want: 3},
		{name: "slot boundary", genesis: 10000 - 7*sps, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentSlot(tt.genesis))
		})
	}
}
