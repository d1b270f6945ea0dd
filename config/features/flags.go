package features

import "github.com/urfave/cli/v2"

const deprecatedUsage = "DEPRECATED. DO NOT USE."

var (
	writeSSZStateTransitionsFlag = &cli.BoolFlag{
		Name:  "interop-write-ssz-state-transitions",
		Usage: "Write ssz encoded blocks that fail the state transition to the temp directory",
	}
	disableFinalizedPruningFlag = &cli.BoolFlag{
		Name:  "disable-finalized-pruning",
		Usage: "Keep blocks and votes older than the finalized checkpoint in the fork choice store",
	}

	deprecatedInteropNumValidators = &cli.BoolFlag{
		Name:   "interop-num-validators",
		Usage:  deprecatedUsage,
		Hidden: true,
	}
)

var deprecatedFlags = []cli.Flag{
	deprecatedInteropNumValidators,
}

// BeaconChainFlags contains a list of all the feature flags that apply to the beacon-chain client.
var BeaconChainFlags = append(deprecatedFlags, []cli.Flag{
	writeSSZStateTransitionsFlag,
	disableFinalizedPruningFlag,
}...)

// ActiveFlags returns all of the flags that are not Hidden.
func ActiveFlags(flags []cli.Flag) []cli.Flag {
	visible := make([]cli.Flag, 0, len(flags))
	for _, flag := range flags {
		if boolFlag, ok := flag.(*cli.BoolFlag); ok && boolFlag.Hidden {
			continue
		}
		visible = append(visible, flag)
	}
	return visible
}
