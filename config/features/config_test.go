package features

import (
	"flag"
	"reflect"
	"strings"
	"testing"

	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/urfave/cli/v2"
)

func TestInitFeatureConfig(t *testing.T) {
	defer Init(&Flags{})
	cfg := &Flags{
		WriteSSZStateTransitions: true,
	}
	Init(cfg)
	assert.Equal(t, true, Get().WriteSSZStateTransitions)
}

func TestInitWithReset(t *testing.T) {
	defer Init(&Flags{})
	Init(&Flags{
		DisableFinalizedPruning: true,
	})
	assert.Equal(t, true, Get().DisableFinalizedPruning)

	reset := InitWithReset(&Flags{
		WriteSSZStateTransitions: true,
	})
	assert.Equal(t, false, Get().DisableFinalizedPruning)
	assert.Equal(t, true, Get().WriteSSZStateTransitions)

	reset()
	assert.Equal(t, true, Get().DisableFinalizedPruning)
	assert.Equal(t, false, Get().WriteSSZStateTransitions)
}

func TestConfigureBeaconConfig(t *testing.T) {
	defer Init(&Flags{})
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.Bool(writeSSZStateTransitionsFlag.Name, true, "test")
	context := cli.NewContext(&app, set, nil)
	ConfigureBeaconChain(context)
	c := Get()
	assert.Equal(t, true, c.WriteSSZStateTransitions)
	assert.Equal(t, false, c.DisableFinalizedPruning)
}

func TestDeprecatedFlags(t *testing.T) {
	require.NotEqual(t, 0, len(deprecatedFlags))
	for _, f := range deprecatedFlags {
		fv := reflect.ValueOf(f)
		field := reflect.Indirect(fv).FieldByName("Hidden")
		assert.Equal(t, false, !field.IsValid() || !field.Bool())
		assert.Equal(t, false, !strings.Contains(reflect.Indirect(fv).FieldByName("Usage").String(), deprecatedUsage))
	}
}
