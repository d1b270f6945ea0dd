package primitives

import (
	"github.com/thomaso-mirodin/intmath/u64"
)

// immediateJustificationWindow is the number of slots after finalization that
// are always justifiable.
const immediateJustificationWindow = 5

// IsJustifiableAfter reports whether s can be justified given the finalized
// slot. A slot is justifiable when its distance delta from finalization is at
// most 5, a perfect square, or a pronic number n*(n+1). Slots before
// finalization are never justifiable.
func (s Slot) IsJustifiableAfter(finalized Slot) bool {
	if s < finalized {
		return false
	}
	delta := uint64(s.SubSlot(finalized))
	if delta <= immediateJustificationWindow {
		return true
	}
	root := u64.Sqrt(delta)
	if root*root == delta {
		return true
	}
	// delta is pronic when 4*delta+1 is an odd perfect square.
	pronic := 4*delta + 1
	root = u64.Sqrt(pronic)
	return root*root == pronic && root%2 == 1
}
