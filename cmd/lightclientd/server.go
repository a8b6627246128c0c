// Copyright 2024 The rainbow-bridge-sub000 Authors
// This file is part of the rainbow-bridge-sub000 library.
//
// The rainbow-bridge-sub000 library is free software: you can redistribute it
// and/or modify it under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The rainbow-bridge-sub000 library is distributed in the hope that it will
// be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.

package main

import (
	"encoding/json"
	"net/http"

	"github.com/Near-One/rainbow-bridge-sub000/client"
	"github.com/Near-One/rainbow-bridge-sub000/internal/metrics"
	lg "github.com/Near-One/rainbow-bridge-sub000/log"
)

// queryServer is the relayer-facing read surface (spec.md §4.G queries):
// a thin JSON-over-HTTP stub standing in for the gRPC/JSON surface a real
// relayer would speak, since no such transport is specified by spec.md
// itself (a Non-goal at the relayer layer, not at this module's own
// ambient CLI/daemon wiring).
type queryServer struct {
	facade  *client.Facade
	metrics *metrics.Collector
	log     lg.Logger
}

func newQueryServer(facade *client.Facade, collector *metrics.Collector) *queryServer {
	return &queryServer{facade: facade, metrics: collector, log: lg.Root().With("component", "queryServer")}
}

func (s *queryServer) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/last_block_number", s.handleLastBlockNumber)
	mux.HandleFunc("/v1/block_hash_safe", s.handleBlockHashSafe)
	mux.HandleFunc("/v1/light_client_state", s.handleLightClientState)
	mux.HandleFunc("/v1/dag_merkle_root", s.handleDagMerkleRoot)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

func (s *queryServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("failed encoding response", "err", err)
	}
}

func (s *queryServer) writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	s.writeJSON(w, map[string]string{"error": err.Error()})
}

func (s *queryServer) handleLastBlockNumber(w http.ResponseWriter, r *http.Request) {
	number, err := s.facade.LastBlockNumber()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, map[string]uint64{"last_block_number": number})
}

func (s *queryServer) handleBlockHashSafe(w http.ResponseWriter, r *http.Request) {
	number, err := parseUintQuery(r, "number")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	hash, err := s.facade.BlockHashSafe(number)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, map[string]string{"block_hash": hash.String()})
}

func (s *queryServer) handleDagMerkleRoot(w http.ResponseWriter, r *http.Request) {
	epoch, err := parseUintQuery(r, "epoch")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	root, err := s.facade.DagMerkleRoot(epoch)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, map[string]string{"dag_merkle_root": root.String()})
}

func (s *queryServer) handleLightClientState(w http.ResponseWriter, r *http.Request) {
	state, err := s.facade.GetLightClientState()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	resp := map[string]any{
		"finalized_slot":        state.FinalizedBeaconHeader.Header.Slot,
		"finalized_beacon_root": state.FinalizedBeaconHeader.BeaconBlockRoot.String(),
		"execution_block_hash":  state.FinalizedBeaconHeader.ExecutionBlockHash.String(),
		"has_next_committee":    state.NextSyncCommittee != nil,
	}
	s.writeJSON(w, resp)
}

func parseUintQuery(r *http.Request, name string) (uint64, error) {
	return parseUint(r.URL.Query().Get(name))
}
