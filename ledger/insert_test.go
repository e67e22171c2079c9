// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/ledger"
	"github.com/zerochain/zerod/storage"
	"github.com/zerochain/zerod/storage/mocks"
	"github.com/zerochain/zerod/transactionrecord"
)

func TestGenesisRejections(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	// genesis must have height zero
	_, err := l.InsertBlock(numberedBlock(t, 1, digest.Digest{}))
	assert.Equal(t, fault.HeightOutOfSequence, err, "nonzero genesis height")

	// and an all zero previous digest
	_, err = l.InsertBlock(numberedBlock(t, 0, commitment("not a real parent")))
	assert.Equal(t, fault.PreviousDigestMismatch, err, "nonzero genesis parent")

	assert.True(t, l.IsEmpty(), "still empty after rejections")
}

func TestInsertRejections(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	tip := insertChain(t, l, 0, 2, digest.Digest{})

	// height gap
	skipTx := makeTx(t, nil, []digest.Digest{commitment("skipped")})
	_, err := l.InsertBlock(makeBlock(t, 4, tip, skipTx))
	assert.Equal(t, fault.HeightOutOfSequence, err, "height gap")

	// repeated height
	_, err = l.InsertBlock(makeBlock(t, 2, tip, skipTx))
	assert.Equal(t, fault.HeightOutOfSequence, err, "repeated height")

	// wrong parent
	_, err = l.InsertBlock(makeBlock(t, 3, commitment("wrong parent"), skipTx))
	assert.Equal(t, fault.PreviousDigestMismatch, err, "wrong parent")

	// garbage bytes
	_, err = l.InsertBlock([]byte{0x99, 0x00, 0x01})
	assert.Equal(t, fault.InvalidBlockVersion, err, "garbage block")

	// nothing leaked into the maps
	assert.Equal(t, uint64(2), l.Height(), "height unchanged")
	_, _, err = l.TransactionWithId(skipTx.TxId())
	assert.Equal(t, fault.TransactionNotFound, err, "rejected tx absent")
	skipped := commitment("skipped")
	has, err := store.Pool.Commitments.Has(skipped[:])
	assert.Nil(t, err, "has")
	assert.False(t, has, "rejected commitment absent")
}

func TestDoubleSpendRejection(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	// genesis produces the commitment later blocks fight over
	c := commitment("contested output")
	genesisTx := makeTx(t, nil, []digest.Digest{c})
	tip, err := l.InsertBlock(makeBlock(t, 0, digest.Digest{}, genesisTx))
	assert.Nil(t, err, "insert genesis")

	// block 1 spends it
	s := serial("contested output")
	spendTx := makeTx(t, []transactionrecord.Spend{{SerialNumber: s, Commitment: c}}, []digest.Digest{commitment("change 1")})
	tip, err = l.InsertBlock(makeBlock(t, 1, tip, spendTx))
	assert.Nil(t, err, "insert spending block")

	// block 2 revealing the same serial number must be rejected
	againTx := makeTx(t, []transactionrecord.Spend{{SerialNumber: s, Commitment: c}}, []digest.Digest{commitment("change 2")})
	_, err = l.InsertBlock(makeBlock(t, 2, tip, againTx))
	assert.Equal(t, fault.DoubleSpend, err, "double spend")
	assert.Equal(t, uint64(1), l.Height(), "height unchanged")
}

func TestInBlockDoubleSpend(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	c1 := commitment("one")
	c2 := commitment("two")
	genesisTx := makeTx(t, nil, []digest.Digest{c1, c2})
	tip, err := l.InsertBlock(makeBlock(t, 0, digest.Digest{}, genesisTx))
	assert.Nil(t, err, "insert genesis")

	// two transactions in one block revealing the same serial
	s := serial("shared")
	txA := makeTx(t, []transactionrecord.Spend{{SerialNumber: s, Commitment: c1}}, nil)
	txB := makeTx(t, []transactionrecord.Spend{{SerialNumber: s, Commitment: c2}}, []digest.Digest{commitment("extra")})
	_, err = l.InsertBlock(makeBlock(t, 1, tip, txA, txB))
	assert.Equal(t, fault.DoubleSpend, err, "in-block double spend")
}

func TestMissingCommitment(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	tip, err := l.InsertBlock(numberedBlock(t, 0, digest.Digest{}))
	assert.Nil(t, err, "insert genesis")

	// spend referencing a commitment nobody produced
	tx := makeTx(t, []transactionrecord.Spend{{
		SerialNumber: serial("phantom"),
		Commitment:   commitment("phantom"),
	}}, nil)
	_, err = l.InsertBlock(makeBlock(t, 1, tip, tx))
	assert.Equal(t, fault.CommitmentNotFound, err, "missing commitment")
}

// a spend may reference a commitment produced earlier in the same block
func TestSameBlockCommitmentReference(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	tip, err := l.InsertBlock(numberedBlock(t, 0, digest.Digest{}))
	assert.Nil(t, err, "insert genesis")

	c := commitment("fresh in this block")
	produce := makeTx(t, nil, []digest.Digest{c})
	consume := makeTx(t, []transactionrecord.Spend{{
		SerialNumber: serial("fresh in this block"),
		Commitment:   c,
	}}, nil)

	_, err = l.InsertBlock(makeBlock(t, 1, tip, produce, consume))
	assert.Nil(t, err, "same block reference")
}

func TestDuplicateCommitment(t *testing.T) {
	l, store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	c := commitment("repeat")
	tip, err := l.InsertBlock(makeBlock(t, 0, digest.Digest{}, makeTx(t, nil, []digest.Digest{c})))
	assert.Nil(t, err, "insert genesis")

	// re-introducing a committed commitment must be rejected
	_, err = l.InsertBlock(makeBlock(t, 1, tip, makeTx(t, nil, []digest.Digest{c})))
	assert.Equal(t, fault.CommitmentExists, err, "duplicate commitment")
}

// a failing backend commit leaves the in-memory chain untouched
func TestInsertCommitFailure(t *testing.T) {
	removeFiles()
	setupTestLogger()
	defer removeFiles()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	access := mocks.NewMockAccess(ctl)
	access.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	access.EXPECT().Has(gomock.Any()).Return(false, nil).AnyTimes()
	access.EXPECT().Commit(gomock.Any()).Return(fault.ProcessError("disk full")).Times(1)

	store, err := storage.NewStore(logger.New("storage"), access)
	assert.Nil(t, err, "new store")

	l, err := ledger.New(logger.New("ledger"), store, testRingSize)
	assert.Nil(t, err, "new ledger")

	_, err = l.InsertBlock(numberedBlock(t, 0, digest.Digest{}))
	assert.Equal(t, fault.ProcessError("disk full"), err, "commit failure")

	assert.True(t, l.IsEmpty(), "tip pointer untouched after failed commit")
}
