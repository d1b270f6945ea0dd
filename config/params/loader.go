package params

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// LoadChainConfigFile load, unmarshal and apply a chain config file on top of
// the preset it names (devnet by default).
func LoadChainConfigFile(chainConfigFileName string) error {
	yamlFile, err := os.ReadFile(chainConfigFileName) // #nosec G304
	if err != nil {
		return errors.Wrap(err, "failed to read chain config file")
	}
	conf, err := UnmarshalConfig(yamlFile)
	if err != nil {
		return errors.Wrapf(err, "failed to parse chain config file %s", chainConfigFileName)
	}
	log.WithField("configName", conf.ConfigName).Debug("Loaded chain config file")
	OverrideBeaconConfig(conf)
	return nil
}

// UnmarshalConfig decodes a yaml chain config. Unknown keys are rejected.
func UnmarshalConfig(yamlFile []byte) (*BeaconChainConfig, error) {
	// Default to using devnet.
	conf := MainnetConfig().Copy()
	// To track if config name is defined inside config file.
	hasConfigName := false
	for _, line := range strings.Split(string(yamlFile), "\n") {
		if strings.HasPrefix(line, "CONFIG_NAME") {
			hasConfigName = true
		}
		if strings.HasPrefix(line, "PRESET_BASE: 'minimal'") ||
			strings.HasPrefix(line, `PRESET_BASE: "minimal"`) ||
			strings.HasPrefix(line, "PRESET_BASE: minimal") {
			conf = MinimalSpecConfig().Copy()
		}
	}
	if err := yaml.UnmarshalStrict(yamlFile, conf); err != nil {
		return nil, err
	}
	if !hasConfigName {
		conf.ConfigName = "custom"
	}
	if conf.IntervalsPerSlot == 0 || conf.SecondsPerSlot%conf.IntervalsPerSlot != 0 {
		return nil, fmt.Errorf("SECONDS_PER_SLOT (%d) must be a positive multiple of INTERVALS_PER_SLOT (%d)",
			conf.SecondsPerSlot, conf.IntervalsPerSlot)
	}
	if conf.SafeTargetDenominator == 0 || conf.SafeTargetNumerator > conf.SafeTargetDenominator {
		return nil, fmt.Errorf("invalid safe target fraction %d/%d", conf.SafeTargetNumerator, conf.SafeTargetDenominator)
	}
	return conf, nil
}

// ConfigToYaml takes a provided config and outputs its contents
// in yaml. This allows custom configs to be read by other clients.
func ConfigToYaml(cfg *BeaconChainConfig) []byte {
	lines := []string{}
	lines = append(lines, fmt.Sprintf("PRESET_BASE: '%s'", cfg.PresetBase))
	lines = append(lines, fmt.Sprintf("CONFIG_NAME: '%s'", cfg.ConfigName))
	lines = append(lines, fmt.Sprintf("SECONDS_PER_SLOT: %d", cfg.SecondsPerSlot))
	lines = append(lines, fmt.Sprintf("INTERVALS_PER_SLOT: %d", cfg.IntervalsPerSlot))
	lines = append(lines, fmt.Sprintf("GENESIS_DELAY: %d", cfg.GenesisDelay))
	lines = append(lines, fmt.Sprintf("JUSTIFICATION_LOOKBACK_SLOTS: %d", cfg.JustificationLookbackSlots))
	lines = append(lines, fmt.Sprintf("SAFE_TARGET_NUMERATOR: %d", cfg.SafeTargetNumerator))
	lines = append(lines, fmt.Sprintf("SAFE_TARGET_DENOMINATOR: %d", cfg.SafeTargetDenominator))
	lines = append(lines, fmt.Sprintf("PRUNE_THRESHOLD_SLOTS: %d", cfg.PruneThresholdSlots))
	lines = append(lines, fmt.Sprintf("HISTORICAL_ROOTS_LIMIT: %d", cfg.HistoricalRootsLimit))
	lines = append(lines, fmt.Sprintf("VALIDATOR_REGISTRY_LIMIT: %d", cfg.ValidatorRegistryLimit))
	lines = append(lines, fmt.Sprintf("MAX_ATTESTATIONS: %d", cfg.MaxAttestations))
	lines = append(lines, fmt.Sprintf("NUM_VALIDATORS: %d", cfg.DefaultNumValidators))
	return []byte(strings.Join(lines, "\n"))
}
