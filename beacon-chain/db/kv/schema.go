package kv

// The schema will define how to store and retrieve data from the db.
// Blocks and states are keyed by block root, the slot index maps a big
// endian slot to the concatenated roots of the blocks at that slot.
var (
	blocksBucket        = []byte("blocks")
	stateBucket         = []byte("state")
	checkpointBucket    = []byte("check-point")
	chainMetadataBucket = []byte("chain-metadata")

	// Indices buckets.
	blockSlotIndicesBucket = []byte("block-slot-indices")

	// Specific item keys.
	headBlockRootKey       = []byte("head-root")
	genesisBlockRootKey    = []byte("genesis-root")
	justifiedCheckpointKey = []byte("justified-checkpoint")
	finalizedCheckpointKey = []byte("finalized-checkpoint")
)
