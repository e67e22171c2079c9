// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/storage"
	"github.com/zerochain/zerod/storage/mocks"
)

// a batch spanning several pools must appear as one indivisible step
func TestBatchCommit(t *testing.T) {
	store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	batch := store.NewBatch()
	assert.Nil(t, batch.Put(store.Pool.TestData, []byte("alpha"), []byte("one")), "put")
	assert.Nil(t, batch.Put(store.Pool.Metadata, []byte("beta"), []byte("two")), "put")
	assert.Nil(t, batch.PutN(store.Pool.TestData, []byte("gamma"), 3), "putN")
	assert.Equal(t, 3, batch.Count(), "count")

	// nothing visible before commit
	value, err := store.Pool.TestData.Get([]byte("alpha"))
	assert.Nil(t, err, "get")
	assert.Nil(t, value, "value visible before commit")

	assert.Nil(t, batch.Commit(), "commit")

	// everything visible after commit
	value, err = store.Pool.TestData.Get([]byte("alpha"))
	assert.Nil(t, err, "get")
	assert.Equal(t, []byte("one"), value, "value after commit")

	value, err = store.Pool.Metadata.Get([]byte("beta"))
	assert.Nil(t, err, "get")
	assert.Equal(t, []byte("two"), value, "value after commit")

	n, found, err := store.Pool.TestData.GetN([]byte("gamma"))
	assert.Nil(t, err, "getN")
	assert.True(t, found, "getN found")
	assert.Equal(t, uint64(3), n, "getN value")
}

// a batch is single use
func TestBatchSingleUse(t *testing.T) {
	store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	batch := store.NewBatch()
	assert.Nil(t, batch.Put(store.Pool.TestData, []byte("alpha"), []byte("one")), "put")
	assert.Nil(t, batch.Commit(), "commit")

	// every further call must be rejected
	assert.Equal(t, fault.BatchAlreadySpent, batch.Put(store.Pool.TestData, []byte("beta"), []byte("two")), "put after commit")
	assert.Equal(t, fault.BatchAlreadySpent, batch.Delete(store.Pool.TestData, []byte("alpha")), "delete after commit")
	assert.Equal(t, fault.BatchAlreadySpent, batch.Commit(), "commit after commit")
}

// an aborted batch must not write anything
func TestBatchAbort(t *testing.T) {
	store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	batch := store.NewBatch()
	assert.Nil(t, batch.Put(store.Pool.TestData, []byte("alpha"), []byte("one")), "put")
	batch.Abort()

	value, err := store.Pool.TestData.Get([]byte("alpha"))
	assert.Nil(t, err, "get")
	assert.Nil(t, value, "value visible after abort")

	assert.Equal(t, fault.BatchAlreadySpent, batch.Commit(), "commit after abort")
}

// a deletion inside a batch only applies on commit
func TestBatchDelete(t *testing.T) {
	store := setup(t, storage.MemoryBackend)
	defer teardown(t, store)

	p := store.Pool.TestData
	poolPut(t, p, "alpha", "one")

	batch := store.NewBatch()
	assert.Nil(t, batch.Delete(p, []byte("alpha")), "delete")

	value, err := p.Get([]byte("alpha"))
	assert.Nil(t, err, "get")
	assert.Equal(t, []byte("one"), value, "value removed before commit")

	assert.Nil(t, batch.Commit(), "commit")

	value, err = p.Get([]byte("alpha"))
	assert.Nil(t, err, "get")
	assert.Nil(t, value, "value still present after commit")
}

// a backend failure surfaces from Commit and spends the batch
func TestBatchCommitFailure(t *testing.T) {
	removeFiles()
	setupTestLogger()
	defer removeFiles()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	access := mocks.NewMockAccess(ctl)
	access.EXPECT().Commit(gomock.Any()).Return(fault.ProcessError("disk full")).Times(1)

	store, err := storage.NewStore(logger.New("storage"), access)
	assert.Nil(t, err, "new store")

	batch := store.NewBatch()
	assert.Nil(t, batch.Put(store.Pool.TestData, []byte("alpha"), []byte("one")), "put")

	err = batch.Commit()
	assert.Equal(t, fault.ProcessError("disk full"), err, "commit error")

	// the failed batch is spent, a retry needs a fresh batch
	assert.Equal(t, fault.BatchAlreadySpent, batch.Commit(), "commit after failure")
}

// an empty batch commits without touching the backend
func TestBatchEmptyCommit(t *testing.T) {
	removeFiles()
	setupTestLogger()
	defer removeFiles()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	// no Commit expectation: calling the backend would fail the test
	access := mocks.NewMockAccess(ctl)

	store, err := storage.NewStore(logger.New("storage"), access)
	assert.Nil(t, err, "new store")

	batch := store.NewBatch()
	assert.Nil(t, batch.Commit(), "commit")
}
