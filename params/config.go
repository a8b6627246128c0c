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

package params

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// MinSyncCommitteeParticipants is the floor on how many sync-committee
// members must have signed a light-client update for it to be
// considered at all (spec.md §4.E step 1).
const MinSyncCommitteeParticipants = 1

// Config is the daemon-level configuration surface: everything spec.md
// §6's table names, loadable from a TOML file via
// github.com/BurntSushi/toml (the same library the teacher's own node
// config loader uses).
type Config struct {
	Network              Network `toml:"network"`
	ValidateEthash        bool   `toml:"validate_ethash"`
	ValidateUpdates       bool   `toml:"validate_updates"`
	VerifyBLSSignatures   bool   `toml:"verify_bls_signatures"`
	HashesGcThreshold     uint64 `toml:"hashes_gc_threshold"`
	FinalizedGcThreshold  uint64 `toml:"finalized_gc_threshold"`
	NumConfirmations      uint64 `toml:"num_confirmations"`
	TrustedSigner         string `toml:"trusted_signer"`
	DagsStartEpoch        uint64 `toml:"dags_start_epoch"`
	DagsMerkleRootsPath   string `toml:"dags_merkle_roots_path"`
}

// LoadConfig decodes TOML configuration from r.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile opens and decodes a TOML config file at path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f)
}
