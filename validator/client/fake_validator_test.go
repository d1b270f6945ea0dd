package client

import (
	"context"
	"sync"

	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/time/slots"
)

var _ Validator = (*FakeValidator)(nil)

// FakeValidator for mocking.
type FakeValidator struct {
	DoneCalled bool
	Ticks      chan slots.Tick
	Roles      map[primitives.ValidatorIndex][]ValidatorRole

	lock     sync.Mutex
	proposed []primitives.Slot
	voted    []primitives.ValidatorIndex
	duties   sync.WaitGroup
}

// Done for mocking.
func (fv *FakeValidator) Done() {
	fv.DoneCalled = true
}

// NextTick for mocking.
func (fv *FakeValidator) NextTick() <-chan slots.Tick {
	return fv.Ticks
}

// RolesAt for mocking.
func (fv *FakeValidator) RolesAt(_ slots.Tick) map[primitives.ValidatorIndex][]ValidatorRole {
	return fv.Roles
}

// ProposeBlock for mocking.
func (fv *FakeValidator) ProposeBlock(_ context.Context, slot primitives.Slot, _ primitives.ValidatorIndex) {
	fv.lock.Lock()
	fv.proposed = append(fv.proposed, slot)
	fv.lock.Unlock()
	fv.duties.Done()
}

// SubmitVote for mocking.
func (fv *FakeValidator) SubmitVote(_ context.Context, _ primitives.Slot, idx primitives.ValidatorIndex) {
	fv.lock.Lock()
	fv.voted = append(fv.voted, idx)
	fv.lock.Unlock()
	fv.duties.Done()
}
