// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/zerochain/zerod/blockrecord"
	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/ledger"
	"github.com/zerochain/zerod/storage"
	"github.com/zerochain/zerod/transactionrecord"
)

const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/test.leveldb"
	testRingSize     = 5
)

// remove all files created by test
func removeFiles() {
	os.RemoveAll(testingDirName)
}

// configure logging for testing
func setupTestLogger() {
	removeFiles()
	os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      50000,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)
}

// open a fresh ledger over the chosen backend
func setup(t *testing.T, backend string) (*ledger.Ledger, *storage.Store) {
	setupTestLogger()

	store, err := storage.Open(logger.New("storage"), backend, databaseFileName)
	if nil != err {
		t.Fatalf("open store error: %s", err)
	}

	l, err := ledger.New(logger.New("ledger"), store, testRingSize)
	if nil != err {
		t.Fatalf("new ledger error: %s", err)
	}
	return l, store
}

func teardown(t *testing.T, store *storage.Store) {
	_ = store.Close()
	logger.Finalise()
	removeFiles()
}

// deterministic digests for test fixtures
func commitment(tag string) digest.Digest {
	return digest.NewDigest([]byte("commitment " + tag))
}

func serial(tag string) digest.Digest {
	return digest.NewDigest([]byte("serial " + tag))
}

// pack a transaction, failing the test on error
func makeTx(t *testing.T, spends []transactionrecord.Spend, commitments []digest.Digest) transactionrecord.Packed {
	tx := transactionrecord.Transaction{
		Spends:      spends,
		Commitments: commitments,
		Payloads:    [][]byte{[]byte("encrypted output")},
		Proof:       []byte("zk proof bytes"),
		Fee:         10,
	}
	packed, err := tx.Pack()
	if nil != err {
		t.Fatalf("pack transaction error: %s", err)
	}
	return packed
}

// pack a block, failing the test on error
func makeBlock(t *testing.T, height uint64, previous digest.Digest, txs ...transactionrecord.Packed) blockrecord.PackedBlock {
	block := blockrecord.Block{
		Height:        height,
		PreviousBlock: previous,
		Timestamp:     1500000000 + height,
		Transactions:  txs,
		Proof:         []byte("aggregate proof"),
	}
	packed, err := block.Pack()
	if nil != err {
		t.Fatalf("pack block error: %s", err)
	}
	return packed
}

// a simple numbered block producing one tagged commitment
func numberedBlock(t *testing.T, height uint64, previous digest.Digest) blockrecord.PackedBlock {
	tx := makeTx(t, nil, []digest.Digest{commitment(fmt.Sprintf("height %d", height))})
	return makeBlock(t, height, previous, tx)
}

// insert a run of simple blocks, returning the tip digest
func insertChain(t *testing.T, l *ledger.Ledger, from uint64, to uint64, previous digest.Digest) digest.Digest {
	for height := from; height <= to; height += 1 {
		d, err := l.InsertBlock(numberedBlock(t, height, previous))
		if nil != err {
			t.Fatalf("insert block: %d error: %s", height, err)
		}
		previous = d
	}
	return previous
}
