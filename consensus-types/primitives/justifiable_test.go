package primitives_test

import (
	"testing"

	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/testing/assert"
)

func TestSlot_IsJustifiableAfter(t *testing.T) {
	tests := []struct {
		name      string
		finalized primitives.Slot
		candidate primitives.Slot
		want      bool
	}{
		{name: "same slot", finalized: 10, candidate: 10, want: true},
		{name: "within window", finalized: 10, candidate: 15, want: true},
		{name: "first gap", finalized: 10, candidate: 17, want: false},
		{name: "pronic 6", finalized: 10, candidate: 16, want: true},
		{name: "square 9", finalized: 10, candidate: 19, want: true},
		{name: "pronic 12", finalized: 10, candidate: 22, want: true},
		{name: "not justifiable 13", finalized: 10, candidate: 23, want: false},
		{name: "square 16", finalized: 0, candidate: 16, want: true},
		{name: "pronic 20", finalized: 0, candidate: 20, want: true},
		{name: "not justifiable 21", finalized: 0, candidate: 21, want: false},
		{name: "large square", finalized: 0, candidate: 1 << 20, want: true},
		{name: "large pronic", finalized: 0, candidate: 1000 * 1001, want: true},
		{name: "before finalized", finalized: 10, candidate: 9, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.IsJustifiableAfter(tt.finalized))
		})
	}
}

func TestSlot_SubSlot(t *testing.T) {
	assert.Equal(t, primitives.Slot(3), primitives.Slot(5).SubSlot(2))
	assert.Equal(t, primitives.Slot(0), primitives.Slot(1).SubSlot(4))
}
