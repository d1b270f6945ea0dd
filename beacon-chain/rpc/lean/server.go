// Package lean defines the HTTP API of the lean node: health, head,
// checkpoints, targets, and SSZ downloads of blocks and the finalized state.
package lean

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prysmaticlabs/lean/beacon-chain/blockchain"
)

// Server defines a server implementation of the lean HTTP API.
type Server struct {
	ChainInfoFetcher blockchain.ChainInfoFetcher
}

// RegisterRoutes adds the API endpoints to the router.
func (s *Server) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/lean/v0").Subrouter()
	api.HandleFunc("/health", s.GetHealth).Methods(http.MethodGet)
	api.HandleFunc("/states/finalized", s.GetFinalizedState).Methods(http.MethodGet)
	api.HandleFunc("/checkpoints/justified", s.GetJustifiedCheckpoint).Methods(http.MethodGet)
	api.HandleFunc("/checkpoints/finalized", s.GetFinalizedCheckpoint).Methods(http.MethodGet)
	api.HandleFunc("/head", s.GetHead).Methods(http.MethodGet)
	api.HandleFunc("/safe_target", s.GetSafeTarget).Methods(http.MethodGet)
	api.HandleFunc("/vote_target", s.GetVoteTarget).Methods(http.MethodGet)
	api.HandleFunc("/blocks/{block_root}", s.GetBlock).Methods(http.MethodGet)
}
