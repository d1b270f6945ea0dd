package lean

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/forkchoice"
	"github.com/prysmaticlabs/lean/consensus-types/containers"
	"github.com/prysmaticlabs/lean/encoding/bytesutil"
	"github.com/prysmaticlabs/lean/network/httputil"
	"go.opencensus.io/trace"
)

const serviceName = "lean-rpc-api"

// GetHealth reports that the API is serving.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJson(w, &HealthResponse{Status: "healthy", Service: serviceName})
}

// GetFinalizedState returns the SSZ encoded post state of the latest finalized block.
func (s *Server) GetFinalizedState(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "lean.GetFinalizedState")
	defer span.End()

	st, err := s.ChainInfoFetcher.FinalizedState(ctx)
	if err != nil {
		httputil.HandleError(w, "Could not get finalized state: "+err.Error(), http.StatusInternalServerError)
		return
	}
	enc, err := st.MarshalSSZ()
	if err != nil {
		httputil.HandleError(w, "Could not marshal finalized state: "+err.Error(), http.StatusInternalServerError)
		return
	}
	httputil.WriteSsz(w, enc, httputil.SszFileName("lean_state", uint64(st.Slot)))
}

// GetJustifiedCheckpoint returns the latest justified checkpoint.
func (s *Server) GetJustifiedCheckpoint(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJson(w, CheckpointFromConsensus(s.ChainInfoFetcher.Snapshot().Justified))
}

// GetFinalizedCheckpoint returns the latest finalized checkpoint.
func (s *Server) GetFinalizedCheckpoint(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJson(w, CheckpointFromConsensus(s.ChainInfoFetcher.Snapshot().Finalized))
}

// GetHead returns the root and slot of the current head.
func (s *Server) GetHead(w http.ResponseWriter, _ *http.Request) {
	snap := s.ChainInfoFetcher.Snapshot()
	httputil.WriteJson(w, CheckpointFromConsensus(containers.Checkpoint{Root: snap.Head, Slot: snap.HeadSlot}))
}

// GetSafeTarget returns the root of the current safe target.
func (s *Server) GetSafeTarget(w http.ResponseWriter, _ *http.Request) {
	root := s.ChainInfoFetcher.Snapshot().SafeTarget
	httputil.WriteJson(w, &RootResponse{Root: hexutil.Encode(root[:])})
}

// GetVoteTarget returns the checkpoint an honest validator would vote for now.
func (s *Server) GetVoteTarget(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "lean.GetVoteTarget")
	defer span.End()

	target, err := s.ChainInfoFetcher.VoteTarget(ctx)
	if err != nil {
		httputil.HandleError(w, "Could not get vote target: "+err.Error(), http.StatusInternalServerError)
		return
	}
	httputil.WriteJson(w, CheckpointFromConsensus(target))
}

// GetBlock returns the SSZ encoded block with the given root.
func (s *Server) GetBlock(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "lean.GetBlock")
	defer span.End()

	raw := mux.Vars(r)["block_root"]
	rootBytes, err := hexutil.Decode(raw)
	if err != nil {
		httputil.HandleError(w, "Invalid block root: "+raw, http.StatusBadRequest)
		return
	}
	root, err := bytesutil.SafeToBytes32(rootBytes)
	if err != nil {
		httputil.HandleError(w, "Invalid block root: "+err.Error(), http.StatusBadRequest)
		return
	}
	blk, err := s.ChainInfoFetcher.Block(ctx, root)
	if err != nil {
		if errors.Is(err, forkchoice.ErrUnknownRoot) {
			httputil.HandleError(w, "Block not found", http.StatusNotFound)
			return
		}
		httputil.HandleError(w, "Could not get block: "+err.Error(), http.StatusInternalServerError)
		return
	}
	enc, err := blk.MarshalSSZ()
	if err != nil {
		httputil.HandleError(w, "Could not marshal block: "+err.Error(), http.StatusInternalServerError)
		return
	}
	httputil.WriteSsz(w, enc, httputil.SszFileName("lean_block", uint64(blk.Slot)))
}
