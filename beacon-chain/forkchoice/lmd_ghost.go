package forkchoice

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
)

// SelectHead runs LMD-GHOST from root over the given blocks and votes and
// returns the selected leaf. A zero root starts from the block with the lowest
// slot. Only blocks whose vote weight is at least minWeight are descended into.
// Ties are broken by slot, then by the greater root.
func SelectHead(
	blocks map[[32]byte]*containers.Block,
	root [32]byte,
	votes map[primitives.ValidatorIndex]containers.Vote,
	minWeight uint64,
) ([32]byte, error) {
	if bytesutil.ZeroRoot(root) {
		r, ok := lowestBlock(blocks)
		if !ok {
			return [32]byte{}, errors.Wrap(ErrUnknownRoot, "no blocks")
		}
		root = r
	}
	start, ok := blocks[root]
	if !ok {
		return [32]byte{}, errors.Wrapf(ErrUnknownRoot, "start root %#x", root)
	}
	weights := computeWeights(blocks, start.Slot, votes)

	children := make(map[[32]byte][][32]byte)
	for r, b := range blocks {
		if r == root || weights[r] < minWeight {
			continue
		}
		children[b.ParentRoot] = append(children[b.ParentRoot], r)
	}

	head := root
	for {
		kids := children[head]
		if len(kids) == 0 {
			return head, nil
		}
		best := kids[0]
		for _, c := range kids[1:] {
			if heavier(blocks, weights, c, best) {
				best = c
			}
		}
		head = best
	}
}

// computeWeights adds one unit of weight per vote to the voted block and each
// of its ancestors above floor.
func computeWeights(
	blocks map[[32]byte]*containers.Block,
	floor primitives.Slot,
	votes map[primitives.ValidatorIndex]containers.Vote,
) map[[32]byte]uint64 {
	weights := make(map[[32]byte]uint64)
	for _, v := range votes {
		r := v.Head.Root
		b, ok := blocks[r]
		for ok && b.Slot > floor {
			weights[r]++
			r = b.ParentRoot
			b, ok = blocks[r]
		}
	}
	return weights
}

// heavier orders blocks by (weight, slot, root).
func heavier(blocks map[[32]byte]*containers.Block, weights map[[32]byte]uint64, a, b [32]byte) bool {
	if weights[a] != weights[b] {
		return weights[a] > weights[b]
	}
	if blocks[a].Slot != blocks[b].Slot {
		return blocks[a].Slot > blocks[b].Slot
	}
	return bytes.Compare(a[:], b[:]) > 0
}

func lowestBlock(blocks map[[32]byte]*containers.Block) ([32]byte, bool) {
	var (
		best  [32]byte
		found bool
	)
	for r, b := range blocks {
		if !found || b.Slot < blocks[best].Slot || (b.Slot == blocks[best].Slot && bytes.Compare(r[:], best[:]) < 0) {
			best = r
			found = true
		}
	}
	return best, found
}
