package params_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
)

func TestUnmarshalConfig_Defaults(t *testing.T) {
	conf, err := params.UnmarshalConfig([]byte("SECONDS_PER_SLOT: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(8), conf.SecondsPerSlot)
	assert.Equal(t, "custom", conf.ConfigName)
	assert.Equal(t, params.MainnetConfig().IntervalsPerSlot, conf.IntervalsPerSlot)
	// The shared default must not be touched.
	assert.Equal(t, uint64(4), params.MainnetConfig().SecondsPerSlot)
}

func TestUnmarshalConfig_MinimalPreset(t *testing.T) {
	conf, err := params.UnmarshalConfig([]byte("PRESET_BASE: 'minimal'\nCONFIG_NAME: 'local'\n"))
	require.NoError(t, err)
	assert.Equal(t, "minimal", conf.PresetBase)
	assert.Equal(t, "local", conf.ConfigName)
	assert.Equal(t, params.MinimalSpecConfig().PruneThresholdSlots, conf.PruneThresholdSlots)
}

func TestUnmarshalConfig_UnknownKey(t *testing.T) {
	_, err := params.UnmarshalConfig([]byte("SLOTS_PER_EPOCH: 32\n"))
	require.ErrorContains(t, "not found", err)
}

func TestUnmarshalConfig_BadIntervals(t *testing.T) {
	_, err := params.UnmarshalConfig([]byte("SECONDS_PER_SLOT: 5\nINTERVALS_PER_SLOT: 4\n"))
	require.ErrorContains(t, "must be a positive multiple", err)
}

func TestLoadChainConfigFile_RoundTrip(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	cfg := params.MainnetConfig().Copy()
	cfg.ConfigName = "roundtrip"
	cfg.SecondsPerSlot = 12
	cfg.PruneThresholdSlots = 100

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, params.ConfigToYaml(cfg), 0600))
	require.NoError(t, params.LoadChainConfigFile(file))
	require.DeepEqual(t, cfg, params.BeaconConfig())
}

func TestSafeTargetThreshold(t *testing.T) {
	cfg := params.MainnetConfig()
	tests := []struct {
		validators uint64
		want       uint64
	}{
		{validators: 1, want: 1},
		{validators: 3, want: 2},
		{validators: 4, want: 3},
		{validators: 5, want: 4},
		{validators: 100, want: 67},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.SafeTargetThreshold(tt.validators))
	}
}

func TestCopy_Independent(t *testing.T) {
	cfg := params.MainnetConfig().Copy()
	cfg.SecondsPerSlot = 100
	assert.NotEqual(t, cfg.SecondsPerSlot, params.MainnetConfig().SecondsPerSlot)
}
