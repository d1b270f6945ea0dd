package slots

import (
	"time"

	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
)

// StartTime returns the start time of the slot for the given genesis time.
func StartTime(genesis uint64, slot primitives.Slot) time.Time {
	duration := time.Second * time.Duration(uint64(slot)*params.BeaconConfig().SecondsPerSlot)
	return time.Unix(int64(genesis), 0).Add(duration)
}

// IntervalStart returns the unix time in seconds at which the interval of
// the slot begins.
func IntervalStart(genesis uint64, slot primitives.Slot, interval uint64) uint64 {
	cfg := params.BeaconConfig()
	return genesis + uint64(slot)*cfg.SecondsPerSlot + interval*cfg.SecondsPerInterval()
}

// CurrentSlot returns the current slot as determined by the local clock and
// provided genesis time.
func CurrentSlot(genesisTimeSec uint64) primitives.Slot {
	now := uint64(timeNow().Unix())
	if now < genesisTimeSec {
		return 0
	}
	return primitives.Slot((now - genesisTimeSec) / params.BeaconConfig().SecondsPerSlot)
}

// timeNow is swappable in tests.
var timeNow = time.Now
