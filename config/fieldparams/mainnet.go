package field_params

const (
	Preset                   = "devnet"
	RootLength               = 32         // RootLength defines the byte length of a Merkle root.
	SignatureLength          = 32         // SignatureLength defines the byte length of an opaque vote or block signature.
	HistoricalRootsLimit     = 262144     // HISTORICAL_ROOTS_LIMIT
	ValidatorRegistryLimit   = 4096       // VALIDATOR_REGISTRY_LIMIT
	MaxAttestations          = 4096       // MaxAttestations defines the maximum number of signed votes carried in a block body.
	JustificationBitsLimit   = 1073741824 // HISTORICAL_ROOTS_LIMIT * VALIDATOR_REGISTRY_LIMIT
	MaxStateSSZSize          = 1 << 28    // MaxStateSSZSize bounds the encoded size accepted when decoding a state.
	JustifiedSlotsBytesLimit = HistoricalRootsLimit/8 + 1
	JustificationBytesLimit  = JustificationBitsLimit/8 + 1
)
