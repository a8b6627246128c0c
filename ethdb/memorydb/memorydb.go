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

// Package memorydb implements an in-memory ethdb.KeyValueStore, used by
// unit tests and as the engine's state backend when no durable pebble
// store is configured.
package memorydb

import (
	"errors"
	"sync"

	"github.com/Near-One/rainbow-bridge-sub000/ethdb"
)

// ErrMemorydbClosed is returned by any operation on a closed database.
var ErrMemorydbClosed = errors.New("memorydb: closed")

// ErrMemorydbNotFound is returned when a key does not exist.
var ErrMemorydbNotFound = errors.New("memorydb: not found")

// Database is an ephemeral key/value store protected by a single mutex;
// light-client workloads are low-QPS enough that this never becomes a
// bottleneck.
type Database struct {
	lock sync.RWMutex
	db   map[string][]byte
}

// New returns a newly allocated, empty in-memory store.
func New() *Database {
	return &Database{db: make(map[string][]byte)}
}

func (d *Database) Has(key []byte) (bool, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.db == nil {
		return false, ErrMemorydbClosed
	}
	_, ok := d.db[string(key)]
	return ok, nil
}

func (d *Database) Get(key []byte) ([]byte, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.db == nil {
		return nil, ErrMemorydbClosed
	}
	if v, ok := d.db[string(key)]; ok {
		cp := make([]byte, len(v))
		copy(cp, v)
		return cp, nil
	}
	return nil, ErrMemorydbNotFound
}

func (d *Database) Put(key, value []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.db == nil {
		return ErrMemorydbClosed
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	d.db[string(key)] = cp
	return nil
}

func (d *Database) Delete(key []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.db == nil {
		return ErrMemorydbClosed
	}
	delete(d.db, string(key))
	return nil
}

func (d *Database) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.db = nil
	return nil
}

func (d *Database) NewBatch() ethdb.Batch {
	return &batch{db: d}
}

type keyvalue struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db     *Database
	writes []keyvalue
	size   int
}

func (b *batch) Put(key, value []byte) error {
	k := append([]byte{}, key...)
	v := append([]byte{}, value...)
	b.writes = append(b.writes, keyvalue{k, v, false})
	b.size += len(k) + len(v)
	return nil
}

func (b *batch) Delete(key []byte) error {
	k := append([]byte{}, key...)
	b.writes = append(b.writes, keyvalue{k, nil, true})
	b.size += len(k)
	return nil
}

func (b *batch) ValueSize() int {
	return b.size
}

func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()
	if b.db.db == nil {
		return ErrMemorydbClosed
	}
	for _, kv := range b.writes {
		if kv.delete {
			delete(b.db.db, string(kv.key))
			continue
		}
		b.db.db[string(kv.key)] = kv.value
	}
	return nil
}

func (b *batch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}
