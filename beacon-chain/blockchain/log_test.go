package blockchain

import (
	"testing"

	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/sirupsen/logrus"
	logTest "github.com/sirupsen/logrus/hooks/test"
)

func TestLogBlockImported_HexRoots(t *testing.T) {
	hook := logTest.NewGlobal()
	blk := &containers.Block{Slot: 3, ParentRoot: [32]byte{0xab, 0xcd}}
	logBlockImported(blk, [32]byte{0x12, 0x34, 0x56}, Snapshot{HeadSlot: 3})
	require.LogsContain(t, hook, "root=0x123456000000")
	require.LogsContain(t, hook, "parentRoot=0xabcd00000000")
}

func TestLogHeadChanged_HexRoots(t *testing.T) {
	hook := logTest.NewGlobal()
	logrus.SetLevel(logrus.DebugLevel)
	defer logrus.SetLevel(logrus.InfoLevel)
	logHeadChanged(&HeadEvent{Slot: 2, Root: [32]byte{0x01}, OldRoot: [32]byte{0xff}})
	require.LogsContain(t, hook, "root=0x010000000000")
	require.LogsContain(t, hook, "oldRoot=0xff0000000000")
}
