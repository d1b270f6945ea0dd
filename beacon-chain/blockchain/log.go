package blockchain

import (
	"fmt"

	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "blockchain")

// logs block import related data every block.
func logBlockImported(blk *containers.Block, root [32]byte, snap Snapshot) {
	log.WithFields(logrus.Fields{
		"slot":          blk.Slot,
		"root":          fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
		"parentRoot":    fmt.Sprintf("%#x", bytesutil.Trunc(blk.ParentRoot[:])),
		"votes":         len(blk.Body.Attestations),
		"headSlot":      snap.HeadSlot,
		"justifiedSlot": snap.Justified.Slot,
		"finalizedSlot": snap.Finalized.Slot,
	}).Info("Synced new block")
}

func logHeadChanged(ev *HeadEvent) {
	log.WithFields(logrus.Fields{
		"slot":    ev.Slot,
		"root":    fmt.Sprintf("%#x", bytesutil.Trunc(ev.Root[:])),
		"oldRoot": fmt.Sprintf("%#x", bytesutil.Trunc(ev.OldRoot[:])),
	}).Debug("Head block updated")
}
