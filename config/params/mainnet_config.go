package params

import (
	fieldparams "github.com/prysmaticlabs/lean/config/fieldparams"
)

// MainnetConfig returns the configuration used by the lean devnets.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig
}

var mainnetBeaconConfig = &BeaconChainConfig{
	PresetBase: "devnet",
	ConfigName: Devnet.String(),

	SecondsPerSlot:   4,
	IntervalsPerSlot: 4,
	GenesisDelay:     10,

	JustificationLookbackSlots: 3,
	SafeTargetNumerator:        2,
	SafeTargetDenominator:      3,
	PruneThresholdSlots:        64,

	HistoricalRootsLimit:   fieldparams.HistoricalRootsLimit,
	ValidatorRegistryLimit: fieldparams.ValidatorRegistryLimit,
	MaxAttestations:        fieldparams.MaxAttestations,

	DefaultNumValidators: 4,
}

// MinimalSpecConfig retrieves the minimal config used in tests. Genesis is
// immediate and the store is pruned eagerly.
func MinimalSpecConfig() *BeaconChainConfig {
	minimalConfig := mainnetBeaconConfig.Copy()
	minimalConfig.PresetBase = "minimal"
	minimalConfig.ConfigName = Minimal.String()
	minimalConfig.GenesisDelay = 0
	minimalConfig.PruneThresholdSlots = 8
	return minimalConfig
}
