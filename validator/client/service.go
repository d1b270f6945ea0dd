// Package client runs the duties of the validators held by this node: it
// proposes blocks and votes for the head as the slot clock advances.
package client

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/consensus-types/primitives"
	"github.com/prysmaticlabs/lean/runtime"
)

var _ runtime.Service = (*ValidatorService)(nil)

var errNoChain = errors.New("validator service requires a chain client")

// Config for the validator service.
type Config struct {
	Chain   ChainClient
	Indices []primitives.ValidatorIndex
}

// ValidatorService performs the duties of a set of validator indices.
type ValidatorService struct {
	ctx     context.Context
	cancel  context.CancelFunc
	chain   ChainClient
	indices []primitives.ValidatorIndex
}

// NewValidatorService creates a new validator service for the service
// registry. Duplicate indices are dropped.
func NewValidatorService(ctx context.Context, cfg *Config) (*ValidatorService, error) {
	if cfg == nil || cfg.Chain == nil {
		return nil, errNoChain
	}
	ctx, cancel := context.WithCancel(ctx)
	return &ValidatorService{
		ctx:     ctx,
		cancel:  cancel,
		chain:   cfg.Chain,
		indices: dedupIndices(cfg.Indices),
	}, nil
}

// Start the validator service. Launches the main go routine for the validator
// client.
func (v *ValidatorService) Start() {
	log.WithField("validators", v.indices).Info("Starting validator duties")
	val := newValidator(v.chain, v.indices)
	go run(v.ctx, val)
}

// Stop the validator service.
func (v *ValidatorService) Stop() error {
	v.cancel()
	log.Info("Stopping service")
	return nil
}

// Status of the validator service.
func (v *ValidatorService) Status() error {
	if err := v.ctx.Err(); err != nil {
		return err
	}
	return nil
}

// Indices returns the validator indices served, in ascending order.
func (v *ValidatorService) Indices() []primitives.ValidatorIndex {
	return append([]primitives.ValidatorIndex(nil), v.indices...)
}

func dedupIndices(in []primitives.ValidatorIndex) []primitives.ValidatorIndex {
	seen := make(map[primitives.ValidatorIndex]bool, len(in))
	out := make([]primitives.ValidatorIndex, 0, len(in))
	for _, idx := range in {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
