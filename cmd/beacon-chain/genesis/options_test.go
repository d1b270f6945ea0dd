package genesis

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/prysmaticlabs/lean/testing/util"
	"github.com/urfave/cli/v2"
)

func cliContext(t *testing.T, path string) *cli.Context {
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(StatePath.Name, "", "")
	if path != "" {
		require.NoError(t, set.Set(StatePath.Name, path))
	}
	return cli.NewContext(&app, set, nil)
}

func TestBeaconNodeOptions_NoFlag(t *testing.T) {
	opt, err := BeaconNodeOptions(cliContext(t, ""))
	require.NoError(t, err)
	assert.Equal(t, true, opt == nil)
}

func TestLoadState(t *testing.T) {
	st, _ := util.DeterministicGenesisState(t, 5)
	enc, err := st.MarshalSSZ()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "genesis.ssz")
	require.NoError(t, os.WriteFile(path, enc, 0600))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	assert.DeepEqual(t, st.Config, loaded.Config)

	opt, err := BeaconNodeOptions(cliContext(t, path))
	require.NoError(t, err)
	assert.Equal(t, false, opt == nil)
}

func TestLoadState_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadState(filepath.Join(dir, "missing.ssz"))
	require.ErrorContains(t, "could not read genesis state file", err)

	garbage := filepath.Join(dir, "garbage.ssz")
	require.NoError(t, os.WriteFile(garbage, []byte{1, 2, 3}, 0600))
	_, err = LoadState(garbage)
	require.ErrorContains(t, "could not decode genesis state file", err)

	st, _ := util.DeterministicGenesisState(t, 2)
	st.Slot = 3
	enc, err := st.MarshalSSZ()
	require.NoError(t, err)
	later := filepath.Join(dir, "later.ssz")
	require.NoError(t, os.WriteFile(later, enc, 0600))
	_, err = LoadState(later)
	require.ErrorContains(t, "want 0", err)
}
