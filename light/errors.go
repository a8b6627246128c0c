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

package light

import "errors"

// Error taxonomy for the PoW header-chain engine (spec.md §7).
var (
	ErrUnknownParent     = errors.New("light: unknown parent header")
	ErrTooOld            = errors.New("light: header older than retention window")
	ErrStructuralInvalid = errors.New("light: header fails structural validation")
	ErrDuplicateHeader   = errors.New("light: header already known")
	ErrUnauthorized      = errors.New("light: submitter is not the trusted signer")
	ErrMalformedInput    = errors.New("light: malformed header input")
	ErrPaused            = errors.New("light: operation blocked by pause bitmask")
)
