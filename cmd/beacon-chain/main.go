// Package main defines a lean consensus node, the entrypoint of the
// fork choice core, its HTTP API and its interop validators.
package main

import (
	"fmt"
	"os"
	runtimeDebug "runtime/debug"

	joonix "github.com/joonix/log"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/node"
	"github.com/prysmaticlabs/lean/cmd"
	"github.com/prysmaticlabs/lean/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/lean/cmd/beacon-chain/genesis"
	"github.com/prysmaticlabs/lean/config/features"
	"github.com/prysmaticlabs/lean/io/logs"
	"github.com/prysmaticlabs/lean/monitoring/prometheus"
	"github.com/prysmaticlabs/lean/runtime/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	_ "go.uber.org/automaxprocs"
)

var log = logrus.WithField("prefix", "main")

var appFlags = []cli.Flag{
	cmd.DataDirFlag,
	cmd.ConfigFileFlag,
	cmd.ChainConfigFileFlag,
	cmd.MinimalConfigFlag,
	cmd.VerbosityFlag,
	cmd.LogFormat,
	cmd.LogFileName,
	cmd.ClearDB,
	cmd.ForceClearDB,
	cmd.MonitoringHostFlag,
	cmd.DisableMonitoringFlag,
	flags.MonitoringPortFlag,
	cmd.EnableTracingFlag,
	cmd.TracingProcessNameFlag,
	cmd.TracingEndpointFlag,
	cmd.TraceSampleFractionFlag,
	flags.GenesisTimeFlag,
	flags.NumValidatorsFlag,
	flags.InteropValidatorsFlag,
	flags.DisableValidatorFlag,
	flags.HTTPHostFlag,
	flags.HTTPPortFlag,
	flags.HTTPCorsDomainFlag,
	flags.HTTPTimeoutFlag,
	genesis.StatePath,
}

func init() {
	appFlags = cmd.WrapFlags(append(appFlags, features.BeaconChainFlags...))
}

func main() {
	app := cli.App{}
	app.Name = "beacon-chain"
	app.Usage = "this is a lean consensus node implementation"
	app.Action = startNode
	app.Version = version.Version()
	app.Flags = appFlags

	app.Before = func(ctx *cli.Context) error {
		// Load flags from config file, if specified.
		if ctx.IsSet(cmd.ConfigFileFlag.Name) {
			if err := altsrc.InitInputSourceWithContext(
				appFlags,
				altsrc.NewYamlSourceFromFlagFunc(cmd.ConfigFileFlag.Name))(ctx); err != nil {
				return err
			}
		}
		if err := configureLogging(ctx); err != nil {
			return err
		}
		if !ctx.Bool(cmd.DisableMonitoringFlag.Name) {
			logrus.AddHook(prometheus.NewLogrusCollector())
		}
		return nil
	}

	defer func() {
		if x := recover(); x != nil {
			log.Errorf("Runtime panic: %v\n%v", x, string(runtimeDebug.Stack()))
			panic(x)
		}
	}()

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// configureLogging applies the verbosity, format and log file flags to the
// standard logger.
func configureLogging(ctx *cli.Context) error {
	verbosity := ctx.String(cmd.VerbosityFlag.Name)
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	format := ctx.String(cmd.LogFormat.Name)
	switch format {
	case "text":
		formatter := new(prefixed.TextFormatter)
		formatter.TimestampFormat = "2006-01-02 15:04:05"
		formatter.FullTimestamp = true
		// If persistent log files are written - we disable the log messages coloring because
		// the colors are ANSI codes and seen as gibberish in the log files.
		formatter.DisableColors = ctx.String(cmd.LogFileName.Name) != ""
		logrus.SetFormatter(formatter)
	case "fluentd":
		logrus.SetFormatter(joonix.NewFormatter())
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %s", format)
	}

	logFileName := ctx.String(cmd.LogFileName.Name)
	if logFileName != "" {
		if err := logs.ConfigurePersistentLogging(logFileName); err != nil {
			log.WithError(err).Error("Failed to configuring logging to disk.")
		}
	}
	return nil
}

func startNode(ctx *cli.Context) error {
	var opts []node.Option
	genesisOpt, err := genesis.BeaconNodeOptions(ctx)
	if err != nil {
		return errors.Wrap(err, "could not load genesis state")
	}
	if genesisOpt != nil {
		opts = append(opts, genesisOpt)
	}
	beacon, err := node.New(ctx, opts...)
	if err != nil {
		return err
	}
	beacon.Start()
	return nil
}
