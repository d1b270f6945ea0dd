package node

import (
	"context"
	"flag"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	http_rest "github.com/prysmaticlabs/lean/api/server/http-rest"
	"github.com/prysmaticlabs/lean/beacon-chain/blockchain"
	"github.com/prysmaticlabs/lean/beacon-chain/db"
	"github.com/prysmaticlabs/lean/beacon-chain/db/kv"
	"github.com/prysmaticlabs/lean/cmd"
	"github.com/prysmaticlabs/lean/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/lean/config/params"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/monitoring/tracing"
	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/prysmaticlabs/lean/testing/util"
	"github.com/prysmaticlabs/lean/validator/client"
	"github.com/urfave/cli/v2"
)

// newCliContext returns a context with every flag the node reads. Values in
// set override the defaults and count as explicitly set.
func newCliContext(t *testing.T, dataDir string, set map[string]string) *cli.Context {
	app := cli.App{}
	fs := flag.NewFlagSet("test", 0)
	fs.String(cmd.DataDirFlag.Name, dataDir, "")
	fs.Bool(cmd.DisableMonitoringFlag.Name, true, "")
	fs.Bool(cmd.ClearDB.Name, false, "")
	fs.Bool(cmd.ForceClearDB.Name, false, "")
	fs.Bool(cmd.MinimalConfigFlag.Name, true, "")
	fs.String(cmd.ChainConfigFileFlag.Name, "", "")
	fs.String(cmd.MonitoringHostFlag.Name, "127.0.0.1", "")
	fs.Int(flags.MonitoringPortFlag.Name, 0, "")
	fs.Bool(cmd.EnableTracingFlag.Name, false, "")
	fs.String(cmd.TracingProcessNameFlag.Name, "lean-node", "")
	fs.String(cmd.TracingEndpointFlag.Name, "http://127.0.0.1:14268/api/traces", "")
	fs.Float64(cmd.TraceSampleFractionFlag.Name, 0.2, "")
	fs.String(flags.HTTPHostFlag.Name, "127.0.0.1", "")
	fs.Int(flags.HTTPPortFlag.Name, 0, "")
	fs.String(flags.HTTPCorsDomainFlag.Name, "", "")
	fs.Duration(flags.HTTPTimeoutFlag.Name, time.Second, "")
	fs.Uint64(flags.GenesisTimeFlag.Name, 0, "")
	fs.Uint64(flags.NumValidatorsFlag.Name, 4, "")
	fs.Var(cli.NewIntSlice(), flags.InteropValidatorsFlag.Name, "")
	fs.Bool(flags.DisableValidatorFlag.Name, false, "")
	require.NoError(t, fs.Set(flags.NumValidatorsFlag.Name, "4"))
	for k, v := range set {
		require.NoError(t, fs.Set(k, v))
	}
	return cli.NewContext(&app, fs, nil)
}

func waitFor(t *testing.T, cond func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("Condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func startNode(t *testing.T, node *BeaconNode) {
	stopped := make(chan struct{})
	go func() {
		node.Start()
		close(stopped)
	}()
	var chain *blockchain.Service
	require.NoError(t, node.services.FetchService(&chain))
	waitFor(t, func() bool { return chain.Status() == nil })
	t.Cleanup(func() {
		node.Close()
		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			t.Error("Node did not stop")
		}
	})
}

func TestNodeStart_ServesAPI(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	node, err := New(newCliContext(t, t.TempDir(), nil))
	require.NoError(t, err)
	startNode(t, node)

	var srv *http_rest.Server
	require.NoError(t, node.services.FetchService(&srv))
	waitFor(t, func() bool { return !strings.HasSuffix(srv.Addr(), ":0") })

	resp, err := http.Get("http://" + srv.Addr() + "/lean/v0/health")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.StringContains(t, "lean-rpc-api", string(body))
}

func TestNode_RegistersServices(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	node, err := New(newCliContext(t, t.TempDir(), map[string]string{
		flags.InteropValidatorsFlag.Name: "0,2",
	}))
	require.NoError(t, err)
	defer node.abort()

	var validators *client.ValidatorService
	require.NoError(t, node.services.FetchService(&validators))
	assert.DeepEqual(t, []primitives.ValidatorIndex{0, 2}, validators.Indices())
	assert.DeepEqual(t, []string{
		"*blockchain.Service",
		"*client.ValidatorService",
		"*http_rest.Server",
	}, node.services.Names())
}

func TestNode_DisableValidator(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	node, err := New(newCliContext(t, t.TempDir(), map[string]string{
		flags.InteropValidatorsFlag.Name: "1",
		flags.DisableValidatorFlag.Name:  "true",
	}))
	require.NoError(t, err)
	defer node.abort()

	var validators *client.ValidatorService
	assert.ErrorContains(t, "unknown service", node.services.FetchService(&validators))
}

func TestNode_NegativeValidatorIndex(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	_, err := New(newCliContext(t, t.TempDir(), map[string]string{
		flags.InteropValidatorsFlag.Name: "-1",
	}))
	require.ErrorIs(t, err, errNegativeIndex)
}

func TestNode_TracingNeedsProcessName(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	_, err := New(newCliContext(t, t.TempDir(), map[string]string{
		cmd.EnableTracingFlag.Name:      "true",
		cmd.TracingProcessNameFlag.Name: "",
	}))
	require.ErrorIs(t, err, tracing.ErrEmptyName)
}

func TestNode_ForceClearDB(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	ctx := context.Background()
	dataDir := t.TempDir()
	dbPath := filepath.Join(dataDir, kv.BeaconNodeDbDirName)

	d, err := db.NewDB(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, d.SaveGenesisBlockRoot(ctx, [32]byte{'g'}))
	require.NoError(t, d.Close())

	node, err := New(newCliContext(t, dataDir, map[string]string{
		cmd.ForceClearDB.Name: "true",
	}))
	require.NoError(t, err)
	defer node.abort()

	_, err = node.db.GenesisBlockRoot(ctx)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestNode_ClearDBDeclined(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	ctx := context.Background()
	dataDir := t.TempDir()
	dbPath := filepath.Join(dataDir, kv.BeaconNodeDbDirName)

	d, err := db.NewDB(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, d.SaveGenesisBlockRoot(ctx, [32]byte{'g'}))
	require.NoError(t, d.Close())

	node, err := New(newCliContext(t, dataDir, map[string]string{
		cmd.ClearDB.Name: "true",
	}), WithConfirmationReader(strings.NewReader("maybe\nn\n")))
	require.NoError(t, err)
	defer node.abort()

	root, err := node.db.GenesisBlockRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, [32]byte{'g'}, root)
}

func TestConfirmDelete(t *testing.T) {
	ok, err := confirmDelete(strings.NewReader("y\n"))
	require.NoError(t, err)
	assert.Equal(t, true, ok)

	ok, err = confirmDelete(strings.NewReader("N"))
	require.NoError(t, err)
	assert.Equal(t, false, ok)

	_, err = confirmDelete(strings.NewReader(""))
	require.ErrorIs(t, err, io.EOF)
}

func TestBlockchainOptions_GenesisState(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	st, _ := util.DeterministicGenesisState(t, 3)
	node, err := New(newCliContext(t, t.TempDir(), nil), WithGenesisState(st))
	require.NoError(t, err)
	startNode(t, node)

	var chain *blockchain.Service
	require.NoError(t, node.services.FetchService(&chain))
	assert.Equal(t, uint64(3), chain.Snapshot().Config.NumValidators)
}

func TestGenesisTime(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	cfg := params.BeaconConfig().Copy()
	cfg.GenesisDelay = 30
	params.OverrideBeaconConfig(cfg)
	now := time.Unix(1000, 0)

	assert.Equal(t, uint64(1030), genesisTime(newCliContext(t, "", nil), now))
	ctx := newCliContext(t, "", map[string]string{flags.GenesisTimeFlag.Name: "77"})
	assert.Equal(t, uint64(77), genesisTime(ctx, now))
}
