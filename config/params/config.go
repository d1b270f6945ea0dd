// Package params defines important constants that are essential to lean consensus services.
package params

import (
	"time"

	"github.com/prysmaticlabs/lean/consensus-types/primitives"
)

// BeaconChainConfig contains constant configs for node to participate in the lean chain.
type BeaconChainConfig struct {
	PresetBase string `yaml:"PRESET_BASE" spec:"true"`
	ConfigName string `yaml:"CONFIG_NAME" spec:"true"`

	// Time parameters.
	SecondsPerSlot   uint64 `yaml:"SECONDS_PER_SLOT" spec:"true"`
	IntervalsPerSlot uint64 `yaml:"INTERVALS_PER_SLOT" spec:"true"`
	// GenesisDelay is the number of seconds to wait before genesis when no genesis time is given.
	GenesisDelay uint64 `yaml:"GENESIS_DELAY" spec:"true"`

	// Fork choice parameters.
	// JustificationLookbackSlots bounds how far a vote target may lead the safe target.
	JustificationLookbackSlots primitives.Slot `yaml:"JUSTIFICATION_LOOKBACK_SLOTS" spec:"true"`
	SafeTargetNumerator        uint64          `yaml:"SAFE_TARGET_NUMERATOR" spec:"true"`
	SafeTargetDenominator      uint64          `yaml:"SAFE_TARGET_DENOMINATOR" spec:"true"`
	// PruneThresholdSlots is how far finality must advance before the store is pruned.
	PruneThresholdSlots primitives.Slot `yaml:"PRUNE_THRESHOLD_SLOTS"`

	// State list limits.
	HistoricalRootsLimit   uint64 `yaml:"HISTORICAL_ROOTS_LIMIT" spec:"true"`
	ValidatorRegistryLimit uint64 `yaml:"VALIDATOR_REGISTRY_LIMIT" spec:"true"`
	MaxAttestations        uint64 `yaml:"MAX_ATTESTATIONS" spec:"true"`

	// ZeroHash is used to represent a zeroed out 32 byte array.
	ZeroHash [32]byte `yaml:"-"`

	// DefaultNumValidators is the interop validator count used when none is given on the command line.
	DefaultNumValidators uint64 `yaml:"NUM_VALIDATORS"`
}

// SlotDuration returns the wall clock length of a slot.
func (b *BeaconChainConfig) SlotDuration() time.Duration {
	return time.Duration(b.SecondsPerSlot) * time.Second
}

// SecondsPerInterval returns the length in seconds of a single slot interval.
func (b *BeaconChainConfig) SecondsPerInterval() uint64 {
	if b.IntervalsPerSlot == 0 {
		return b.SecondsPerSlot
	}
	return b.SecondsPerSlot / b.IntervalsPerSlot
}

// SafeTargetThreshold returns the minimum number of fresh votes a block needs
// to be picked as the safe target, ceil(numerator * n / denominator).
func (b *BeaconChainConfig) SafeTargetThreshold(numValidators uint64) uint64 {
	if b.SafeTargetDenominator == 0 {
		return 0
	}
	return (b.SafeTargetNumerator*numValidators + b.SafeTargetDenominator - 1) / b.SafeTargetDenominator
}
