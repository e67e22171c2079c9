// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/zerochain/zerod/fault"
)

// Batch - an ordered, atomic write set spanning one or more pools
//
// operations accumulate in memory and touch no persistent state
// until Commit hands them to the backend's atomic write primitive;
// a batch is single use: once committed or aborted every further
// call is rejected
type Batch struct {
	store *Store
	ops   []Op
	spent bool
}

// Put - add a key/value store operation
func (b *Batch) Put(pool *PoolHandle, key []byte, value []byte) error {
	if b.spent {
		return fault.BatchAlreadySpent
	}

	// copy so later caller mutations cannot reach the write set
	data := make([]byte, len(value))
	copy(data, value)

	b.ops = append(b.ops, Op{
		Key:   pool.prefixKey(key),
		Value: data,
	})
	return nil
}

// PutN - add a store operation for a big endian uint64 value
func (b *Batch) PutN(pool *PoolHandle, key []byte, value uint64) error {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, value)
	return b.Put(pool, key, data)
}

// Delete - add a key removal operation
func (b *Batch) Delete(pool *PoolHandle, key []byte) error {
	if b.spent {
		return fault.BatchAlreadySpent
	}
	b.ops = append(b.ops, Op{
		Remove: true,
		Key:    pool.prefixKey(key),
	})
	return nil
}

// Count - number of accumulated operations
func (b *Batch) Count() int {
	return len(b.ops)
}

// Commit - atomically apply the whole write set
//
// on failure nothing was applied and the batch is still spent
func (b *Batch) Commit() error {
	if b.spent {
		return fault.BatchAlreadySpent
	}
	b.spent = true

	if 0 == len(b.ops) {
		return nil
	}
	return b.store.access.Commit(b.ops)
}

// Abort - discard the write set without applying anything
func (b *Batch) Abort() {
	b.spent = true
	b.ops = nil
}
