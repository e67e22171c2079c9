// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"

	"github.com/zerochain/zerod/blockrecord"
	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/transactionrecord"
)

// BlockAtHeight - fetch a committed block by height
//
// the ring is consulted first, then the block pool
func (l *Ledger) BlockAtHeight(height uint64) (*blockrecord.Block, error) {
	l.RLock()
	defer l.RUnlock()

	if l.empty || height > l.height {
		return nil, fault.BlockNotFound
	}

	if packed, _ := l.ring.BlockAtHeight(height); nil != packed {
		return blockrecord.PackedBlock(packed).Unpack()
	}

	packed, err := l.store.Pool.Blocks.Get(heightKey(height))
	if nil != err {
		return nil, err
	}
	if nil == packed {
		return nil, fault.BlockNotFound
	}
	return blockrecord.PackedBlock(packed).Unpack()
}

// BlockWithDigest - fetch a committed block by its digest
func (l *Ledger) BlockWithDigest(d digest.Digest) (*blockrecord.Block, error) {
	l.RLock()
	defer l.RUnlock()

	if l.empty {
		return nil, fault.BlockNotFound
	}

	if packed, _ := l.ring.BlockWithDigest(d); nil != packed {
		return blockrecord.PackedBlock(packed).Unpack()
	}

	hKey, err := l.store.Pool.BlockDigests.Get(d[:])
	if nil != err {
		return nil, err
	}
	if nil == hKey {
		return nil, fault.BlockNotFound
	}
	if 8 != len(hKey) {
		return nil, fault.RecordCorrupt
	}

	// the digest index only points above the tip after a damaged
	// rollback, treat that as corruption not as a miss
	if binary.BigEndian.Uint64(hKey) > l.height {
		return nil, fault.RecordCorrupt
	}

	packed, err := l.store.Pool.Blocks.Get(hKey)
	if nil != err {
		return nil, err
	}
	if nil == packed {
		return nil, fault.RecordCorrupt
	}
	return blockrecord.PackedBlock(packed).Unpack()
}

// TransactionWithId - fetch a committed transaction and the height of
// the block containing it
func (l *Ledger) TransactionWithId(txId digest.Digest) (*transactionrecord.Transaction, uint64, error) {
	l.RLock()
	defer l.RUnlock()

	if l.empty {
		return nil, 0, fault.TransactionNotFound
	}

	height, packed, err := l.store.Pool.Transactions.GetNB(txId[:])
	if nil != err {
		return nil, 0, err
	}
	if nil == packed {
		return nil, 0, fault.TransactionNotFound
	}

	tx, err := transactionrecord.Packed(packed).UnpackExact()
	if nil != err {
		return nil, 0, err
	}
	return tx, height, nil
}
