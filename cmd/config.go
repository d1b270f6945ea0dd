package cmd

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "cmd")

// MinimalConfigFlag switches the chain parameters to the minimal preset.
var MinimalConfigFlag = &cli.BoolFlag{
	Name:  "minimal-config",
	Usage: "Use minimal config with parameters as defined in the lean minimal preset",
}

// Flags is a struct to represent which command line options are in effect.
type Flags struct {
	// MinimalConfig as defined in the lean minimal preset.
	MinimalConfig bool
	// ChainConfigFile is the YAML file applied on top of the preset.
	ChainConfigFile string
}

var sharedConfig *Flags
var sharedConfigLock sync.Mutex

// Get retrieves the command line config.
func Get() *Flags {
	sharedConfigLock.Lock()
	defer sharedConfigLock.Unlock()

	if sharedConfig == nil {
		return &Flags{}
	}
	return sharedConfig
}

// Init sets the global config equal to the config that is passed in.
func Init(c *Flags) {
	sharedConfigLock.Lock()
	defer sharedConfigLock.Unlock()

	sharedConfig = c
}

// InitWithReset sets the global config and returns function that is used to reset configuration.
func InitWithReset(c *Flags) func() {
	resetFunc := func() {
		Init(&Flags{})
	}
	Init(c)
	return resetFunc
}

// ConfigureBeaconChain applies the preset and chain config file flags to the
// active chain config.
func ConfigureBeaconChain(ctx *cli.Context) error {
	cfg := &Flags{}
	if ctx.Bool(MinimalConfigFlag.Name) {
		log.Warn("Using minimal config")
		cfg.MinimalConfig = true
		params.OverrideBeaconConfig(params.MinimalSpecConfig().Copy())
	}
	if ctx.IsSet(ChainConfigFileFlag.Name) {
		cfg.ChainConfigFile = ctx.String(ChainConfigFileFlag.Name)
		if err := params.LoadChainConfigFile(cfg.ChainConfigFile); err != nil {
			return errors.Wrap(err, "could not load chain config file")
		}
	}
	Init(cfg)
	return nil
}
