// Package flags defines beacon-node specific runtime flags for
// setting important values such as ports, genesis parameters and more.
package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	// GenesisTimeFlag specifies the unix genesis time in seconds.
	GenesisTimeFlag = &cli.Uint64Flag{
		Name:  "genesis-time",
		Usage: "Unix time in seconds of the genesis slot. Defaults to now plus GENESIS_DELAY",
	}
	// NumValidatorsFlag specifies the size of the interop validator registry.
	NumValidatorsFlag = &cli.Uint64Flag{
		Name:  "num-validators",
		Usage: "Number of validators in the generated genesis state. Defaults to NUM_VALIDATORS of the chain config",
	}
	// InteropValidatorsFlag lists the validator indices whose duties this node performs.
	InteropValidatorsFlag = &cli.IntSliceFlag{
		Name:  "interop-validators",
		Usage: "Comma separated validator indices to run duties for. Signatures are left empty",
	}
	// HTTPHostFlag defines the host on which the HTTP API listens.
	HTTPHostFlag = &cli.StringFlag{
		Name:  "http-host",
		Usage: "Host on which the HTTP API listens",
		Value: "127.0.0.1",
	}
	// HTTPPortFlag defines the port on which the HTTP API listens.
	HTTPPortFlag = &cli.IntFlag{
		Name:  "http-port",
		Usage: "The port on which the HTTP API listens",
		Value: 5052,
	}
	// HTTPCorsDomainFlag lists the origins allowed to call the HTTP API.
	HTTPCorsDomainFlag = &cli.StringFlag{
		Name:  "http-cors-domain",
		Usage: "Comma separated list of domains from which to accept cross origin requests",
		Value: "http://localhost:4200,http://127.0.0.1:4200",
	}
	// HTTPTimeoutFlag bounds how long an API request may take.
	HTTPTimeoutFlag = &cli.DurationFlag{
		Name:  "http-timeout",
		Usage: "Timeout for reading and answering a single HTTP API request",
		Value: defaultHTTPTimeout,
	}
	// MonitoringPortFlag defines the http port used to serve prometheus metrics.
	MonitoringPortFlag = &cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listening and respond metrics for prometheus.",
		Value: 8080,
	}
	// DisableValidatorFlag keeps the node from running any validator duties.
	DisableValidatorFlag = &cli.BoolFlag{
		Name:  "disable-validator",
		Usage: "Do not run the duties of the interop validators",
	}
)
