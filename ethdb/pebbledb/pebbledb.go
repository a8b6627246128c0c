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

// Package pebbledb implements ethdb.KeyValueStore on top of CockroachDB's
// Pebble LSM engine, the durable backend for a long-running lightclientd
// daemon (the in-memory store in ethdb/memorydb is for tests and
// short-lived processes only).
package pebbledb

import (
	"errors"

	"github.com/Near-One/rainbow-bridge-sub000/ethdb"
	"github.com/cockroachdb/pebble"
)

// ErrNotFound mirrors ethdb's not-found contract over pebble.ErrNotFound.
var ErrNotFound = errors.New("pebbledb: not found")

// Database wraps a single pebble.DB as an ethdb.KeyValueStore.
type Database struct {
	db *pebble.DB
}

// Open opens (creating if absent) a pebble store rooted at dir.
func Open(dir string) (*Database, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (d *Database) Has(key []byte) (bool, error) {
	_, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (d *Database) Get(key []byte) ([]byte, error) {
	data, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, closer.Close()
}

func (d *Database) Put(key, value []byte) error {
	return d.db.Set(key, value, pebble.Sync)
}

func (d *Database) Delete(key []byte) error {
	return d.db.Delete(key, pebble.Sync)
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) NewBatch() ethdb.Batch {
	return &batch{db: d.db, b: d.db.NewBatch()}
}

type batch struct {
	db   *pebble.DB
	b    *pebble.Batch
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.size += len(key) + len(value)
	return b.b.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.size += len(key)
	return b.b.Delete(key, nil)
}

func (b *batch) ValueSize() int {
	return b.size
}

func (b *batch) Write() error {
	return b.b.Commit(pebble.Sync)
}

func (b *batch) Reset() {
	b.b.Reset()
	b.size = 0
}
