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

// Package light implements the post-Merge beacon light client (spec.md
// §4.E, §4.F): sync-committee-signed update verification and the
// execution-header finalizer that chains execution headers backward to
// the previous finalization point.
package light

import "errors"

// Error taxonomy for the beacon light client (spec.md §7).
var (
	ErrInvalidUpdate          = errors.New("beacon/light: update fails ordering, committee-bit, or period checks")
	ErrInvalidProof           = errors.New("beacon/light: merkle proof did not reconstruct the claimed root")
	ErrBLSVerifyFailed        = errors.New("beacon/light: aggregate signature did not verify")
	ErrUnexpectedHeader       = errors.New("beacon/light: header does not chain to the expected parent hash")
	ErrCannotClose            = errors.New("beacon/light: chain-closing header's parent_hash disagrees with stored tip")
	ErrDuplicateHeader        = errors.New("beacon/light: finalized block number already present")
	ErrInsufficientGcThreshold = errors.New("beacon/light: hashes_gc_threshold too small for the unfinalized descent")
	ErrUnauthorized           = errors.New("beacon/light: submitter is not the trusted signer")
	ErrPaused                 = errors.New("beacon/light: operation blocked by pause bitmask")
	ErrWrongMode              = errors.New("beacon/light: operation not permitted in the current client mode")
	ErrMalformedInput         = errors.New("beacon/light: malformed input")
	ErrNotFinalized           = errors.New("beacon/light: block number is past the finalized execution tip")
)
