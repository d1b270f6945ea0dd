package flags

import (
	"flag"
	"testing"

	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/urfave/cli/v2"
)

func TestSplitCommaSeparated(t *testing.T) {
	assert.DeepEqual(t, []string{"a", "b"}, SplitCommaSeparated(" a, ,b,"))
	assert.Equal(t, 0, len(SplitCommaSeparated("")))
}

func TestCorsDomains(t *testing.T) {
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(HTTPCorsDomainFlag.Name, "", "")
	require.NoError(t, set.Set(HTTPCorsDomainFlag.Name, "http://a.io, http://b.io"))
	ctx := cli.NewContext(&app, set, nil)
	assert.DeepEqual(t, []string{"http://a.io", "http://b.io"}, CorsDomains(ctx))
}
