// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Element - a binary key/value pair
type Element struct {
	Key   []byte
	Value []byte
}

// Op - a single operation inside an atomic write set
//
// Remove false: store Value under Key
// Remove true:  delete Key, Value is ignored
type Op struct {
	Remove bool
	Key    []byte
	Value  []byte
}

// Iterator - lazy traversal of a key range in ascending key order
//
// consistent with a snapshot taken when the iterator was created;
// the returned slices are only valid until the next call to Next
type Iterator interface {
	Next() bool
	Last() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Access - the capability set expected from a byte-store backend
//
// point lookups and iteration may run concurrently with a Commit;
// a Commit is atomic: either every Op is durably applied or none is
type Access interface {

	// Get - read the value for a key, nil value when absent
	Get(key []byte) ([]byte, error)

	// Has - check if a key exists
	Has(key []byte) (bool, error)

	// Iterate - ordered traversal of [start, limit), nil limit is unbounded
	Iterate(start []byte, limit []byte) Iterator

	// Commit - atomically apply a set of operations
	Commit(ops []Op) error

	// Close - release the backend
	Close() error
}
