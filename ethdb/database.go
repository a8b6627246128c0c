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

// Package ethdb defines the key/value store the light client's engines
// persist their retained headers, infos and beacon state through. Every
// insert, read and remove is individually atomic (spec.md §5); batches
// give callers a way to make a GC sweep and its triggering write land
// together.
package ethdb

import "io"

// KeyValueReader wraps the Has and Get methods of a backing store.
type KeyValueReader interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter wraps the Put and Delete methods of a backing store.
type KeyValueWriter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch is a write-only buffer accumulating changes to be flushed
// together, so a GC sweep and the write that triggered it commit
// atomically (spec.md §5).
type Batch interface {
	KeyValueWriter

	ValueSize() int
	Write() error
	Reset()
}

// Batcher wraps the NewBatch method of a backing data store.
type Batcher interface {
	NewBatch() Batch
}

// KeyValueStore contains the full suite of methods the engines need to
// interact with the underlying key/value store.
type KeyValueStore interface {
	KeyValueReader
	KeyValueWriter
	Batcher
	io.Closer
}
