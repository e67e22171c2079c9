// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockring

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/zerochain/zerod/digest"
)

// DefaultSize - ring capacity used when the caller does not care
const DefaultSize = 20

// one cached block
type entry struct {
	height uint64
	digest digest.Digest
	packed []byte
	crc    uint64 // CRC64_ECMA(height, packed)
	filled bool
}

// Ring - a fixed capacity cache of the most recent blocks
//
// the newest entry overwrites the oldest once the ring is full; each
// instance is independent and owned by its creating ledger, all
// methods are safe for concurrent use
type Ring struct {
	sync.RWMutex

	log   *logger.L
	ring  []entry
	index int
}

// New - create an empty ring
//
// a size of zero or below selects DefaultSize
func New(log *logger.L, size int) *Ring {
	if size <= 0 {
		size = DefaultSize
	}
	return &Ring{
		log:  log,
		ring: make([]entry, size),
	}
}

// Size - the fixed capacity
func (r *Ring) Size() int {
	return len(r.ring)
}

// Put - cache one block, evicting the oldest entry if full
//
// the packed bytes are copied so the caller may reuse its buffer
func (r *Ring) Put(height uint64, d digest.Digest, packed []byte) {
	r.Lock()
	defer r.Unlock()

	data := make([]byte, len(packed))
	copy(data, packed)

	i := r.index
	r.ring[i] = entry{
		height: height,
		digest: d,
		packed: data,
		crc:    CRC(height, data),
		filled: true,
	}
	i += 1
	if i >= len(r.ring) {
		i = 0
	}
	r.index = i
}

// BlockAtHeight - fetch a cached block by its height
//
// returns nil on a miss; an entry failing its checksum is dropped
// and reported as a miss so the caller falls back to storage
func (r *Ring) BlockAtHeight(height uint64) ([]byte, digest.Digest) {
	r.RLock()

	for i := range r.ring {
		if r.ring[i].filled && height == r.ring[i].height {
			packed, d, ok := r.verify(i)
			r.RUnlock()
			if !ok {
				r.evict(i, height)
			}
			return packed, d
		}
	}
	r.RUnlock()
	return nil, digest.Digest{}
}

// BlockWithDigest - fetch a cached block by its digest
func (r *Ring) BlockWithDigest(d digest.Digest) ([]byte, uint64) {
	r.RLock()

	for i := range r.ring {
		if r.ring[i].filled && d == r.ring[i].digest {
			height := r.ring[i].height
			packed, _, ok := r.verify(i)
			r.RUnlock()
			if !ok {
				r.evict(i, height)
				return nil, 0
			}
			return packed, height
		}
	}
	r.RUnlock()
	return nil, 0
}

// must hold at least the read lock; verify and copy out one entry
func (r *Ring) verify(i int) ([]byte, digest.Digest, bool) {
	e := &r.ring[i]
	if CRC(e.height, e.packed) != e.crc {
		return nil, digest.Digest{}, false
	}
	packed := make([]byte, len(e.packed))
	copy(packed, e.packed)
	return packed, e.digest, true
}

// drop one entry that failed its checksum
//
// re-check under the write lock as a Put may have replaced the slot
// after the read lock was released
func (r *Ring) evict(i int, height uint64) {
	r.Lock()
	defer r.Unlock()

	e := &r.ring[i]
	if e.filled && height == e.height && CRC(e.height, e.packed) != e.crc {
		r.log.Criticalf("ring entry corrupted at height: %d", e.height)
		*e = entry{}
	}
}

// DeleteAbove - drop every cached block strictly above a height
//
// used after a rollback so the cache never serves a detached block
func (r *Ring) DeleteAbove(height uint64) {
	r.Lock()
	defer r.Unlock()

	for i := range r.ring {
		if r.ring[i].filled && r.ring[i].height > height {
			r.ring[i] = entry{}
		}
	}
}

// Clear - drop everything
func (r *Ring) Clear() {
	r.Lock()
	defer r.Unlock()

	for i := range r.ring {
		r.ring[i] = entry{}
	}
	r.index = 0
}
