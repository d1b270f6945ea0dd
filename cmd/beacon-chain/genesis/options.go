// Package genesis maps the genesis state flag onto node options.
package genesis

import (
	"os"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/node"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/urfave/cli/v2"
)

// StatePath defines a flag to start the chain from a given genesis state file.
var StatePath = &cli.PathFlag{
	Name:  "genesis-state",
	Usage: "Load a genesis state from ssz file instead of generating an interop one",
}

// BeaconNodeOptions reads the ssz genesis state named by --genesis-state, if any,
// and returns the node option that anchors an empty database on it.
func BeaconNodeOptions(c *cli.Context) (node.Option, error) {
	statePath := c.Path(StatePath.Name)
	if statePath == "" {
		return nil, nil
	}
	st, err := LoadState(statePath)
	if err != nil {
		return nil, err
	}
	return node.WithGenesisState(st), nil
}

// LoadState decodes an ssz encoded state file.
func LoadState(path string) (*containers.State, error) {
	enc, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "could not read genesis state file")
	}
	st := &containers.State{}
	if err := st.UnmarshalSSZ(enc); err != nil {
		return nil, errors.Wrapf(err, "could not decode genesis state file %s", path)
	}
	if st.Slot != 0 {
		return nil, errors.Errorf("genesis state file %s is at slot %d, want 0", path, st.Slot)
	}
	return st, nil
}
