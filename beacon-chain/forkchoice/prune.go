package forkchoice

import (
	"context"
	"fmt"
	"sort"

	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

func (s *Store) maybePrune(ctx context.Context) error {
	if s.pruneThreshold == 0 {
		return nil
	}
	anchor, ok := s.blocks[s.anchor]
	if !ok || s.latestFinalized.Slot < anchor.Slot+s.pruneThreshold {
		return nil
	}
	_, err := s.Prune(ctx)
	return err
}

// Prune drops every block and state that does not descend from the latest
// finalized block, which becomes the new anchor. Nothing is removed unless the
// head and the justified block descend from it. A safe target that would be
// removed falls back to the justified root. Returns the number of blocks
// removed.
func (s *Store) Prune(ctx context.Context) (int, error) {
	_, span := trace.StartSpan(ctx, "forkchoice.Prune")
	defer span.End()

	finalized := s.latestFinalized.Root
	if _, ok := s.blocks[finalized]; !ok || finalized == s.anchor {
		return 0, nil
	}

	roots := make([][32]byte, 0, len(s.blocks))
	for r := range s.blocks {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(i, j int) bool {
		return s.blocks[roots[i]].Slot < s.blocks[roots[j]].Slot
	})
	keep := map[[32]byte]bool{finalized: true}
	for _, r := range roots {
		if keep[s.blocks[r].ParentRoot] {
			keep[r] = true
		}
	}
	if !keep[s.head] || !keep[s.latestJustified.Root] {
		log.WithField("finalized", s.latestFinalized.String()).Warn("Skipping prune, head does not descend from finalized block")
		return 0, nil
	}
	if !keep[s.safeTarget] {
		s.safeTarget = s.latestJustified.Root
	}

	pruned := 0
	for _, r := range roots {
		if keep[r] {
			continue
		}
		delete(s.blocks, r)
		delete(s.states, r)
		pruned++
	}
	s.anchor = finalized
	s.assertConsistent()
	prunedBlockCount.Add(float64(pruned))
	log.WithFields(logrus.Fields{
		"pruned":    pruned,
		"remaining": len(s.blocks),
		"anchor":    fmt.Sprintf("%#x", bytesutil.Trunc(finalized[:])),
	}).Debug("Pruned fork choice store")
	return pruned, nil
}
