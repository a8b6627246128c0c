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
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/consensus/ethash"
)

// LoadDAGMerkleRoots parses a newline-delimited list of hex-encoded H128
// DAG Merkle roots, one per Ethash epoch starting at startEpoch —
// matching the bulk-load format the Rust relayer's dags_merkle_roots
// files use, modeled here as core configuration rather than a relayer
// data loader (SPEC_FULL.md §3). Blank lines and lines starting with
// '#' are skipped.
func LoadDAGMerkleRoots(r io.Reader, startEpoch uint64) (ethash.EpochDAGRoots, error) {
	var roots []common.H128
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "0x")
		raw, err := hex.DecodeString(line)
		if err != nil {
			return ethash.EpochDAGRoots{}, fmt.Errorf("params: decoding DAG root %q: %w", line, err)
		}
		if len(raw) != 16 {
			return ethash.EpochDAGRoots{}, fmt.Errorf("params: DAG root %q is %d bytes, want 16", line, len(raw))
		}
		roots = append(roots, common.BytesToH128(raw))
	}
	if err := scanner.Err(); err != nil {
		return ethash.EpochDAGRoots{}, err
	}
	return ethash.EpochDAGRoots{StartEpoch: startEpoch, Roots: roots}, nil
}
