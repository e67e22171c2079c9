// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/storage"
	"github.com/zerochain/zerod/transactionrecord"
)

func TestRollbackRejections(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	assert.Equal(t, fault.LedgerIsEmpty, l.RollbackTo(0), "rollback on empty")

	insertChain(t, l, 0, 3, digest.Digest{})

	assert.Equal(t, fault.InvalidRollbackHeight, l.RollbackTo(4), "rollback above tip")

	// rolling back to the current height is a no-op
	assert.Nil(t, l.RollbackTo(3), "rollback to tip")
	assert.Equal(t, uint64(3), l.Height(), "height unchanged")
}

func TestRollback(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	insertChain(t, l, 0, 9, digest.Digest{})

	// remember the records above the cut before undoing them
	abandoned := make([]transactionrecord.Packed, 0, 4)
	for height := uint64(6); height <= 9; height += 1 {
		block, err := l.BlockAtHeight(height)
		assert.Nil(t, err, "get block")
		abandoned = append(abandoned, block.Transactions[0])
	}

	assert.Nil(t, l.RollbackTo(5), "rollback")
	assert.Equal(t, uint64(5), l.Height(), "height after rollback")

	// the new tip is the block at the target height
	block, err := l.BlockAtHeight(5)
	assert.Nil(t, err, "get target block")
	tip, err := l.TipDigest()
	assert.Nil(t, err, "tip")
	assert.Equal(t, block.Digest, tip, "tip is target digest")

	// everything above the cut is gone from every index
	for height := uint64(6); height <= 9; height += 1 {
		_, err := l.BlockAtHeight(height)
		assert.Equal(t, fault.BlockNotFound, err, "block above cut")
	}
	for _, packedTx := range abandoned {
		_, _, err := l.TransactionWithId(packedTx.TxId())
		assert.Equal(t, fault.TransactionNotFound, err, "transaction above cut")

		tx, err := packedTx.UnpackExact()
		assert.Nil(t, err, "unpack")
		c := tx.Commitments[0]
		has, err := store.Pool.Commitments.Has(c[:])
		assert.Nil(t, err, "has")
		assert.False(t, has, "commitment above cut")
	}

	// everything at or below the cut survived
	for height := uint64(0); height <= 5; height += 1 {
		_, err := l.BlockAtHeight(height)
		assert.Nil(t, err, "block below cut")
	}
}

// rollback then re-insert reproduces byte identical stored records
func TestRollbackRoundTrip(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	previous := digest.Digest{}
	packedBlocks := make([]blockPacked, 0, 8)
	for height := uint64(0); height <= 7; height += 1 {
		packed := numberedBlock(t, height, previous)
		d, err := l.InsertBlock(packed)
		assert.Nil(t, err, "insert")
		packedBlocks = append(packedBlocks, blockPacked{packed: packed, digest: d})
		previous = d
	}

	assert.Nil(t, l.RollbackTo(4), "rollback")

	// re-insert the very same blocks
	for height := uint64(5); height <= 7; height += 1 {
		d, err := l.InsertBlock(packedBlocks[height].packed)
		assert.Nil(t, err, "re-insert")
		assert.Equal(t, packedBlocks[height].digest, d, "digest after re-insert")
	}
	assert.Equal(t, uint64(7), l.Height(), "height after re-insert")

	// stored bytes are identical to the first run
	for height := uint64(5); height <= 7; height += 1 {
		key := make([]byte, 8)
		key[7] = byte(height)
		stored, err := store.Pool.Blocks.Get(key)
		assert.Nil(t, err, "get stored block")
		assert.Equal(t, []byte(packedBlocks[height].packed), stored, "stored bytes")
	}
}

type blockPacked struct {
	packed []byte
	digest digest.Digest
}

// after rollback the serial numbers above the cut are spendable again
func TestRollbackFreesSerials(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	c := commitment("output")
	tip, err := l.InsertBlock(makeBlock(t, 0, digest.Digest{}, makeTx(t, nil, []digest.Digest{c})))
	assert.Nil(t, err, "insert genesis")

	s := serial("output")
	spend := []transactionrecord.Spend{{SerialNumber: s, Commitment: c}}
	_, err = l.InsertBlock(makeBlock(t, 1, tip, makeTx(t, spend, []digest.Digest{commitment("change a")})))
	assert.Nil(t, err, "insert spend")

	assert.Nil(t, l.RollbackTo(0), "rollback")

	// the same serial is usable by a different block now
	_, err = l.InsertBlock(makeBlock(t, 1, tip, makeTx(t, spend, []digest.Digest{commitment("change b")})))
	assert.Nil(t, err, "re-spend after rollback")
}

// the ring and the pools must agree after a rollback
func TestRollbackCacheAgreement(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	insertChain(t, l, 0, 9, digest.Digest{})

	// capture digests while the blocks are still current
	digests := make([]digest.Digest, 10)
	for height := uint64(0); height <= 9; height += 1 {
		block, err := l.BlockAtHeight(height)
		assert.Nil(t, err, "get block")
		digests[height] = block.Digest
	}

	assert.Nil(t, l.RollbackTo(6), "rollback")

	// heights 7..9 were inside the ring before the rollback; neither
	// lookup path may serve them now
	for height := uint64(7); height <= 9; height += 1 {
		_, err := l.BlockAtHeight(height)
		assert.Equal(t, fault.BlockNotFound, err, "by height after rollback")

		_, err = l.BlockWithDigest(digests[height])
		assert.Equal(t, fault.BlockNotFound, err, "by digest after rollback")
	}
	for height := uint64(0); height <= 6; height += 1 {
		block, err := l.BlockAtHeight(height)
		assert.Nil(t, err, "by height below cut")
		assert.Equal(t, digests[height], block.Digest, "digest below cut")
	}
}
