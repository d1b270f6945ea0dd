package forkchoice

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/config/params"
	"go.opencensus.io/trace"
)

// OnTick advances the store clock to time, in seconds. Every interval
// boundary crossed since the previous tick is processed in order:
//
//	interval 0               new votes are folded into known votes and head is updated
//	intervals per slot / 2   safe target is updated from the new votes
//	last interval            new votes are folded again and head is updated
//
// A time at or before the store time returns ErrStaleTick and changes nothing.
func (s *Store) OnTick(ctx context.Context, time uint64) error {
	ctx, span := trace.StartSpan(ctx, "forkchoice.OnTick")
	defer span.End()

	if time <= s.time {
		return errors.Wrapf(ErrStaleTick, "tick %d, store time %d", time, s.time)
	}
	from, to := s.intervalAt(s.time), s.intervalAt(time)
	s.time = time

	perSlot := int64(params.BeaconConfig().IntervalsPerSlot)
	if perSlot == 0 {
		perSlot = 1
	}
	// Replaying more than a slot of intervals without new input only
	// repeats the same folds, so skip to the last full slot.
	if to-from > perSlot {
		from = to - perSlot
	}
	for i := from + 1; i <= to; i++ {
		if err := s.tickInterval(ctx, uint64(i%perSlot), uint64(perSlot)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) tickInterval(ctx context.Context, interval, perSlot uint64) error {
	if interval == perSlot/2 {
		if err := s.UpdateSafeTarget(ctx); err != nil {
			return errors.Wrap(err, "could not update safe target")
		}
	}
	if interval == 0 || interval == perSlot-1 {
		if err := s.AcceptNewVotes(ctx); err != nil {
			return errors.Wrap(err, "could not accept new votes")
		}
	}
	return nil
}

// intervalAt returns the number of intervals elapsed since genesis at time,
// or -1 before genesis.
func (s *Store) intervalAt(time uint64) int64 {
	if time < s.config.GenesisTime {
		return -1
	}
	perInterval := params.BeaconConfig().SecondsPerInterval()
	if perInterval == 0 {
		perInterval = 1
	}
	return int64((time - s.config.GenesisTime) / perInterval)
}
