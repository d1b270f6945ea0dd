package lean

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
)

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Checkpoint is the JSON form of a checkpoint.
type Checkpoint struct {
	Root string `json:"root"`
	Slot uint64 `json:"slot"`
}

// RootResponse carries a single block root.
type RootResponse struct {
	Root string `json:"root"`
}

// CheckpointFromConsensus converts a checkpoint to its JSON form.
func CheckpointFromConsensus(cp containers.Checkpoint) *Checkpoint {
	return &Checkpoint{
		Root: hexutil.Encode(cp.Root[:]),
		Slot: uint64(cp.Slot),
	}
}
