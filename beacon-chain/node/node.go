// Package node is the main service which launches a lean node and manages
// the lifecycle of all its associated services at runtime, such as the fork
// choice owner, the HTTP API, validator duties and metrics, gracefully closing
// them if the process ends.
package node

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	http_rest "github.com/prysmaticlabs/lean/api/server/http-rest"
	"github.com/prysmaticlabs/lean/beacon-chain/blockchain"
	"github.com/prysmaticlabs/lean/beacon-chain/db"
	"github.com/prysmaticlabs/lean/beacon-chain/db/kv"
	"github.com/prysmaticlabs/lean/beacon-chain/rpc/lean"
	"github.com/prysmaticlabs/lean/cmd"
	"github.com/prysmaticlabs/lean/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/lean/config/features"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/monitoring/prometheus"
	"github.com/prysmaticlabs/lean/monitoring/tracing"
	"github.com/prysmaticlabs/lean/runtime"
	"github.com/prysmaticlabs/lean/runtime/version"
	"github.com/prysmaticlabs/lean/validator/client"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type serviceFlagOpts struct {
	blockchainFlagOpts []blockchain.Option
}

// BeaconNode defines a struct that handles the services running a lean
// consensus node. It handles the lifecycle of the entire system and registers
// services to a service registry.
type BeaconNode struct {
	cliCtx          *cli.Context
	ctx             context.Context
	cancel          context.CancelFunc
	services        *runtime.ServiceRegistry
	lock            sync.RWMutex
	stop            chan struct{} // Channel to wait for termination notifications.
	db              db.Database
	router          *mux.Router
	confirmIn       io.Reader
	serviceFlagOpts *serviceFlagOpts
	GenesisState    *containers.State
}

// New creates a new node instance, sets up configuration options, and registers
// every required service to the node.
func New(cliCtx *cli.Context, opts ...Option) (*BeaconNode, error) {
	features.ConfigureBeaconChain(cliCtx)
	if err := cmd.ConfigureBeaconChain(cliCtx); err != nil {
		return nil, err
	}
	if err := tracing.Setup(
		cliCtx.String(cmd.TracingProcessNameFlag.Name),
		cliCtx.String(cmd.TracingEndpointFlag.Name),
		cliCtx.Float64(cmd.TraceSampleFractionFlag.Name),
		cliCtx.Bool(cmd.EnableTracingFlag.Name),
	); err != nil {
		return nil, err
	}

	registry := runtime.NewServiceRegistry()

	ctx, cancel := context.WithCancel(cliCtx.Context)
	beacon := &BeaconNode{
		cliCtx:          cliCtx,
		ctx:             ctx,
		cancel:          cancel,
		services:        registry,
		stop:            make(chan struct{}),
		router:          mux.NewRouter(),
		confirmIn:       os.Stdin,
		serviceFlagOpts: &serviceFlagOpts{},
	}

	for _, opt := range opts {
		if err := opt(beacon); err != nil {
			cancel()
			return nil, err
		}
	}

	log.Debugln("Starting DB")
	if err := beacon.startDB(cliCtx); err != nil {
		cancel()
		return nil, err
	}

	log.Debugln("Registering Blockchain Service")
	if err := beacon.registerBlockchainService(); err != nil {
		beacon.abort()
		return nil, err
	}

	log.Debugln("Registering Validator Service")
	if err := beacon.registerValidatorService(); err != nil {
		beacon.abort()
		return nil, err
	}

	log.Debugln("Registering HTTP Service")
	if err := beacon.registerHTTPService(); err != nil {
		beacon.abort()
		return nil, err
	}

	if !cliCtx.Bool(cmd.DisableMonitoringFlag.Name) {
		log.Debugln("Registering Prometheus Service")
		beacon.registerPrometheusService(cliCtx)
	}

	return beacon, nil
}

// Start the BeaconNode and kicks off every registered service.
func (b *BeaconNode) Start() {
	b.lock.Lock()

	log.WithFields(logrus.Fields{
		"version":  version.Version(),
		"config":   params.BeaconConfig().ConfigName,
		"services": b.services.Names(),
	}).Info("Starting lean node")

	b.services.StartAll()

	stop := b.stop
	b.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		select {
		case <-sigc:
		case <-stop:
			return
		}
		log.Info("Got interrupt, shutting down...")
		go b.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("Panic closing the lean node")
	}()

	// Wait for stop channel to be closed.
	<-stop
}

// Close handles graceful shutdown of the system.
func (b *BeaconNode) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	select {
	case <-b.stop:
		return
	default:
	}
	log.Info("Stopping lean node")
	b.services.StopAll()
	if err := b.db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}
	b.cancel()
	close(b.stop)
}

// abort releases what New acquired when registration fails.
func (b *BeaconNode) abort() {
	if err := b.db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}
	b.cancel()
}

func (b *BeaconNode) startDB(cliCtx *cli.Context) error {
	baseDir := cliCtx.String(cmd.DataDirFlag.Name)
	if baseDir == "" {
		return errors.New("no --datadir given and the home directory is unknown")
	}
	dbPath := filepath.Join(baseDir, kv.BeaconNodeDbDirName)
	log.WithField("databasePath", dbPath).Info("Checking DB")

	d, err := db.NewDB(b.ctx, dbPath)
	if err != nil {
		return err
	}
	clearDBConfirmed := false
	if cliCtx.Bool(cmd.ClearDB.Name) && !cliCtx.Bool(cmd.ForceClearDB.Name) {
		clearDBConfirmed, err = confirmDelete(b.confirmIn)
		if err != nil {
			if closeErr := d.Close(); closeErr != nil {
				log.WithError(closeErr).Error("Failed to close database")
			}
			return errors.Wrap(err, "could not read confirmation")
		}
	}
	if clearDBConfirmed || cliCtx.Bool(cmd.ForceClearDB.Name) {
		d, err = clearDB(b.ctx, d, dbPath)
		if err != nil {
			return err
		}
	}
	b.db = d
	return nil
}

func (b *BeaconNode) registerBlockchainService() error {
	blockchainService, err := blockchain.NewService(b.ctx, b.blockchainOptions()...)
	if err != nil {
		return errors.Wrap(err, "could not register blockchain service")
	}
	return b.services.RegisterService(blockchainService)
}

func (b *BeaconNode) fetchChainService() (*blockchain.Service, error) {
	var chainService *blockchain.Service
	if err := b.services.FetchService(&chainService); err != nil {
		return nil, err
	}
	return chainService, nil
}

func (b *BeaconNode) registerValidatorService() error {
	if b.cliCtx.Bool(flags.DisableValidatorFlag.Name) {
		return nil
	}
	indices, err := interopValidators(b.cliCtx)
	if err != nil {
		return err
	}
	if len(indices) == 0 {
		return nil
	}
	chainService, err := b.fetchChainService()
	if err != nil {
		return err
	}
	svc, err := client.NewValidatorService(b.ctx, &client.Config{
		Chain:   chainService,
		Indices: indices,
	})
	if err != nil {
		return errors.Wrap(err, "could not register validator service")
	}
	return b.services.RegisterService(svc)
}

func (b *BeaconNode) registerHTTPService() error {
	chainService, err := b.fetchChainService()
	if err != nil {
		return err
	}
	apiServer := &lean.Server{ChainInfoFetcher: chainService}
	apiServer.RegisterRoutes(b.router)

	host := b.cliCtx.String(flags.HTTPHostFlag.Name)
	port := b.cliCtx.Int(flags.HTTPPortFlag.Name)
	srv, err := http_rest.New(b.ctx,
		http_rest.WithRouter(b.router),
		http_rest.WithHTTPAddr(net.JoinHostPort(host, strconv.Itoa(port))),
		http_rest.WithAllowedOrigins(flags.CorsDomains(b.cliCtx)),
		http_rest.WithTimeout(b.cliCtx.Duration(flags.HTTPTimeoutFlag.Name)),
	)
	if err != nil {
		return errors.Wrap(err, "could not register HTTP service")
	}
	return b.services.RegisterService(srv)
}

func (b *BeaconNode) registerPrometheusService(cliCtx *cli.Context) {
	host := cliCtx.String(cmd.MonitoringHostFlag.Name)
	port := cliCtx.Int(flags.MonitoringPortFlag.Name)
	service := prometheus.NewService(net.JoinHostPort(host, strconv.Itoa(port)), b.services)
	if err := b.services.RegisterService(service); err != nil {
		log.WithError(err).Error("Could not register prometheus service")
	}
}
