// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/zerochain/zerod/blockrecord"
	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/transactionrecord"
)

// InsertBlock - validate and atomically commit one block
//
// the block must extend the current tip: height exactly one above the
// current height, previous digest equal to the tip digest; a genesis
// block has height zero and an all zero previous digest
//
// every index write goes into a single batch so no reader can observe
// a partially inserted block; the in-memory tip and the ring are only
// updated after the batch has durably committed
func (l *Ledger) InsertBlock(packed blockrecord.PackedBlock) (digest.Digest, error) {
	l.Lock()
	defer l.Unlock()

	block, err := packed.Unpack()
	if nil != err {
		return digest.Digest{}, err
	}

	if l.empty {
		if 0 != block.Height {
			l.log.Warnf("genesis height: %d", block.Height)
			return digest.Digest{}, fault.HeightOutOfSequence
		}
		if !block.PreviousBlock.IsEmpty() {
			return digest.Digest{}, fault.PreviousDigestMismatch
		}
	} else {
		if block.Height != l.height+1 {
			l.log.Warnf("height: actual: %d  expected: %d", block.Height, l.height+1)
			return digest.Digest{}, fault.HeightOutOfSequence
		}
		if block.PreviousBlock != l.tip {
			l.log.Warnf("previous digest: actual: %v  expected: %v", block.PreviousBlock, l.tip)
			return digest.Digest{}, fault.PreviousDigestMismatch
		}
	}

	txs, err := unpackTransactions(block)
	if nil != err {
		return digest.Digest{}, err
	}

	// in-block duplicate detection and the set of commitments this
	// block itself introduces, for same height spend references
	localCommitments := make(map[digest.Digest]struct{})
	localSerials := make(map[digest.Digest]struct{})
	for _, tx := range txs {
		for _, spend := range tx.Spends {
			if _, ok := localSerials[spend.SerialNumber]; ok {
				return digest.Digest{}, fault.DoubleSpend
			}
			localSerials[spend.SerialNumber] = struct{}{}
		}
		for _, commitment := range tx.Commitments {
			if _, ok := localCommitments[commitment]; ok {
				return digest.Digest{}, fault.CommitmentExists
			}
			localCommitments[commitment] = struct{}{}
		}
	}

	// read-only checks against the committed sets, fanned out
	if err := l.verifyAgainstSets(txs, localCommitments); nil != err {
		return digest.Digest{}, err
	}

	blockDigest := packed.Digest()
	hKey := heightKey(block.Height)

	batch := l.store.NewBatch()

	if err := batch.Put(l.store.Pool.Blocks, hKey, packed); nil != err {
		batch.Abort()
		return digest.Digest{}, err
	}
	if err := batch.Put(l.store.Pool.BlockDigests, blockDigest[:], hKey); nil != err {
		batch.Abort()
		return digest.Digest{}, err
	}

	for i, packedTx := range block.Transactions {
		txId := packedTx.TxId()
		record := make([]byte, 8, 8+len(packedTx))
		copy(record, hKey)
		record = append(record, packedTx...)
		if err := batch.Put(l.store.Pool.Transactions, txId[:], record); nil != err {
			batch.Abort()
			return digest.Digest{}, err
		}

		for _, spend := range txs[i].Spends {
			if err := batch.Put(l.store.Pool.SerialNumbers, spend.SerialNumber[:], hKey); nil != err {
				batch.Abort()
				return digest.Digest{}, err
			}
		}
		for _, commitment := range txs[i].Commitments {
			if err := batch.Put(l.store.Pool.Commitments, commitment[:], hKey); nil != err {
				batch.Abort()
				return digest.Digest{}, err
			}
		}
	}

	if err := batch.Put(l.store.Pool.Metadata, metadataKey, metadataValue(block.Height, blockDigest)); nil != err {
		batch.Abort()
		return digest.Digest{}, err
	}

	if err := batch.Commit(); nil != err {
		l.log.Errorf("commit block: %d  error: %s", block.Height, err)
		return digest.Digest{}, err
	}

	// commit succeeded, now the block is part of the chain
	l.height = block.Height
	l.tip = blockDigest
	l.empty = false
	l.ring.Put(block.Height, blockDigest, packed)

	l.log.Infof("inserted block: %d  digest: %v  transactions: %d", block.Height, blockDigest, len(txs))
	return blockDigest, nil
}

// structurally unpack every contained transaction
func unpackTransactions(block *blockrecord.Block) ([]*transactionrecord.Transaction, error) {
	txs := make([]*transactionrecord.Transaction, len(block.Transactions))
	for i, packedTx := range block.Transactions {
		tx, err := packedTx.UnpackExact()
		if nil != err {
			return nil, err
		}
		txs[i] = tx
	}
	return txs, nil
}
