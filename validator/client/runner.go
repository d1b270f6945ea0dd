package client

import (
	"context"
	"sync"

	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/time/slots"
	"go.opencensus.io/trace"
)

// ValidatorRole is a duty a validator performs at a slot interval.
type ValidatorRole int

const (
	// RoleUnknown means nothing to do.
	RoleUnknown ValidatorRole = iota
	// RoleProposer builds and imports the block of the slot.
	RoleProposer
	// RoleAttester votes for the current head.
	RoleAttester
)

// Validator interface defines the primary methods of a validator client.
type Validator interface {
	Done()
	NextTick() <-chan slots.Tick
	RolesAt(tick slots.Tick) map[primitives.ValidatorIndex][]ValidatorRole
	ProposeBlock(ctx context.Context, slot primitives.Slot, idx primitives.ValidatorIndex)
	SubmitVote(ctx context.Context, slot primitives.Slot, idx primitives.ValidatorIndex)
}

// Run the main validator routine. This routine exits if the context is
// canceled.
//
// Order of operations:
// 1 - Wait for the next interval boundary processed by the node
// 2 - Determine the roles of every held validator at that boundary
// 3 - Perform assigned roles, if any
func run(ctx context.Context, v Validator) {
	defer v.Done()
	for {
		select {
		case <-ctx.Done():
			log.Info("Context canceled, stopping validator")
			return
		case tick := <-v.NextTick():
			performRoles(ctx, v, tick)
		}
	}
}

func performRoles(ctx context.Context, v Validator, tick slots.Tick) {
	ctx, span := trace.StartSpan(ctx, "validator.processInterval")
	defer span.End()
	span.AddAttributes(
		trace.Int64Attribute("slot", int64(tick.Slot)),
		trace.Int64Attribute("interval", int64(tick.Interval)),
	)

	var wg sync.WaitGroup
	for idx, roles := range v.RolesAt(tick) {
		for _, role := range roles {
			switch role {
			case RoleProposer:
				wg.Add(1)
				go func(idx primitives.ValidatorIndex) {
					defer wg.Done()
					v.ProposeBlock(ctx, tick.Slot, idx)
				}(idx)
			case RoleAttester:
				wg.Add(1)
				go func(idx primitives.ValidatorIndex) {
					defer wg.Done()
					v.SubmitVote(ctx, tick.Slot, idx)
				}(idx)
			case RoleUnknown:
				log.Debug("No active roles, doing nothing")
			default:
				log.Warnf("Unhandled role %v", role)
			}
		}
	}
	wg.Wait()
}
