// Package interop contains debugging helpers for the state transition.
package interop

import (
	"fmt"
	"os"
	"path"

	"github.com/prysmaticlabs/lean/config/features"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "interop")

// WriteBlockToDisk as a block ssz. Writes to temp directory. Debug!
func WriteBlockToDisk(block *containers.Block, failed bool) string {
	if !features.Get().WriteSSZStateTransitions || block == nil {
		return ""
	}

	filename := fmt.Sprintf("lean_block_%d.ssz", block.Slot)
	if failed {
		filename = "failed_" + filename
	}
	fp := path.Join(os.TempDir(), filename)
	log.Warnf("Writing block to disk at %s", fp)
	enc, err := block.MarshalSSZ()
	if err != nil {
		log.WithError(err).Error("Failed to ssz encode block")
		return ""
	}
	if err := os.WriteFile(fp, enc, 0600); err != nil {
		log.WithError(err).Error("Failed to write to disk")
		return ""
	}
	return fp
}
