package containers

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

// ErrJustificationLength is returned when the flattened justification
// bitlist does not hold NumValidators bits per tracked root.
var ErrJustificationLength = errors.New("justification validators length does not match roots")

// Justifications unflattens the per-root vote tallies. Each returned bitlist
// has one bit per validator.
func (s *State) Justifications() (map[[32]byte]bitfield.Bitlist, error) {
	n := s.Config.NumValidators
	out := make(map[[32]byte]bitfield.Bitlist, len(s.JustificationRoots))
	if len(s.JustificationRoots) == 0 {
		return out, nil
	}
	if s.JustificationValidators == nil || s.JustificationValidators.Len() != uint64(len(s.JustificationRoots))*n {
		return nil, ErrJustificationLength
	}
	for i, root := range s.JustificationRoots {
		votes := bitfield.NewBitlist(n)
		for v := uint64(0); v < n; v++ {
			if s.JustificationValidators.BitAt(uint64(i)*n + v) {
				votes.SetBitAt(v, true)
			}
		}
		out[root] = votes
	}
	return out, nil
}

// SetJustifications flattens the tallies back into the state. Roots are
// written in ascending byte order so the encoding is deterministic.
func (s *State) SetJustifications(justifications map[[32]byte]bitfield.Bitlist) error {
	n := s.Config.NumValidators
	roots := make([][32]byte, 0, len(justifications))
	for root, votes := range justifications {
		if votes.Len() != n {
			return errors.Wrapf(ErrJustificationLength, "root %#x has %d votes, want %d", root, votes.Len(), n)
		}
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return bytes.Compare(roots[i][:], roots[j][:]) < 0
	})
	flat := bitfield.NewBitlist(uint64(len(roots)) * n)
	for i, root := range roots {
		votes := justifications[root]
		for v := uint64(0); v < n; v++ {
			if votes.BitAt(v) {
				flat.SetBitAt(uint64(i)*n+v, true)
			}
		}
	}
	s.JustificationRoots = roots
	s.JustificationValidators = flat
	return nil
}

// AppendBits returns a new bitlist holding the bits of b followed by vals.
func AppendBits(b bitfield.Bitlist, vals ...bool) bitfield.Bitlist {
	var length uint64
	if b != nil {
		length = b.Len()
	}
	out := bitfield.NewBitlist(length + uint64(len(vals)))
	for i := uint64(0); i < length; i++ {
		if b.BitAt(i) {
			out.SetBitAt(i, true)
		}
	}
	for i, v := range vals {
		if v {
			out.SetBitAt(length+uint64(i), true)
		}
	}
	return out
}
