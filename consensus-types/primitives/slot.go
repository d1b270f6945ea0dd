package primitives

// Slot represents a single slot.
type Slot uint64

// SubSlot returns the distance from x to s, or zero when x is ahead.
func (s Slot) SubSlot(x Slot) Slot {
	if x > s {
		return 0
	}
	return s - x
}

// ValidatorIndex in the validator set.
type ValidatorIndex uint64
