// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/zerochain/zerod/blockrecord"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/storage"
)

// RollbackTo - undo every block above the target height
//
// one reverse batch removes, for each undone height: the block by
// height, the digest index entry, every contained transaction and the
// serial numbers and commitments that height introduced; the metadata
// record moves to the target block inside the same batch so a crash
// mid rollback leaves either the old chain or the new one, never a
// mixture; ring entries above the target are evicted inside the
// exclusive section
func (l *Ledger) RollbackTo(target uint64) error {
	l.Lock()
	defer l.Unlock()

	if l.empty {
		return fault.LedgerIsEmpty
	}
	if target > l.height {
		return fault.InvalidRollbackHeight
	}
	if target == l.height {
		return nil
	}

	batch := l.store.NewBatch()

	for height := l.height; height > target; height -= 1 {
		if err := l.undoBlock(batch, height); nil != err {
			batch.Abort()
			return err
		}
	}

	// re-point the metadata at the target block
	packed, err := l.store.Pool.Blocks.Get(heightKey(target))
	if nil != err {
		batch.Abort()
		return err
	}
	if nil == packed {
		batch.Abort()
		return fault.RecordCorrupt
	}
	newTip := blockrecord.PackedBlock(packed).Digest()

	if err := batch.Put(l.store.Pool.Metadata, metadataKey, metadataValue(target, newTip)); nil != err {
		batch.Abort()
		return err
	}

	if err := batch.Commit(); nil != err {
		l.log.Errorf("rollback to: %d  error: %s", target, err)
		return err
	}

	l.ring.DeleteAbove(target)
	l.height = target
	l.tip = newTip

	l.log.Infof("rolled back to: %d  tip: %v", target, newTip)
	return nil
}

// add the deletions undoing one height to the batch
func (l *Ledger) undoBlock(batch *storage.Batch, height uint64) error {
	hKey := heightKey(height)

	packed, err := l.store.Pool.Blocks.Get(hKey)
	if nil != err {
		return err
	}
	if nil == packed {
		l.log.Criticalf("missing block: %d during rollback", height)
		return fault.RecordCorrupt
	}

	block, err := blockrecord.PackedBlock(packed).Unpack()
	if nil != err {
		l.log.Criticalf("corrupt block: %d during rollback  error: %s", height, err)
		return err
	}

	if err := batch.Delete(l.store.Pool.Blocks, hKey); nil != err {
		return err
	}
	d := block.Digest
	if err := batch.Delete(l.store.Pool.BlockDigests, d[:]); nil != err {
		return err
	}

	for _, packedTx := range block.Transactions {
		txId := packedTx.TxId()
		if err := batch.Delete(l.store.Pool.Transactions, txId[:]); nil != err {
			return err
		}

		tx, err := packedTx.UnpackExact()
		if nil != err {
			return err
		}
		for _, spend := range tx.Spends {
			if err := batch.Delete(l.store.Pool.SerialNumbers, spend.SerialNumber[:]); nil != err {
				return err
			}
		}
		for _, commitment := range tx.Commitments {
			if err := batch.Delete(l.store.Pool.Commitments, commitment[:]); nil != err {
				return err
			}
		}
	}

	return nil
}
