// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/transactionrecord"
	"github.com/zerochain/zerod/util"
)

// Unpack - turn a byte slice back into a block record
//
// the contained transactions are kept in their packed form; use
// transactionrecord.Packed.Unpack on each as required
//
// a decode failure is always surfaced as a record error
func (record PackedBlock) Unpack() (block *Block, e error) {

	// protects the index arithmetic below against truncated records
	defer func() {
		if r := recover(); nil != r {
			block = nil
			e = fault.RecordCorrupt
		}
	}()

	version, n := util.FromVarint64(record)
	if 0 == n {
		return nil, fault.RecordTooShort
	}
	if Version != version {
		return nil, fault.InvalidBlockVersion
	}

	block = &Block{
		Digest: record.Digest(),
	}

	height, count := util.FromVarint64(record[n:])
	if 0 == count {
		return nil, fault.RecordCorrupt
	}
	n += count
	block.Height = height

	err := digest.FromBytes(&block.PreviousBlock, record[n:n+digest.Length])
	if nil != err {
		return nil, fault.RecordCorrupt
	}
	n += digest.Length

	timestamp, count := util.FromVarint64(record[n:])
	if 0 == count {
		return nil, fault.RecordCorrupt
	}
	n += count
	block.Timestamp = timestamp

	txCount, count := util.ClippedVarint64(record[n:], 0, maxTransactions)
	if 0 == count {
		return nil, fault.RecordCorrupt
	}
	n += count

	block.Transactions = make([]transactionrecord.Packed, txCount)
	for i := 0; i < txCount; i += 1 {
		txLength, count := util.ClippedVarint64(record[n:], 1, maxTxLength)
		if 0 == count {
			return nil, fault.RecordCorrupt
		}
		n += count
		if n+txLength > len(record) {
			return nil, fault.RecordCorrupt
		}
		tx := make(transactionrecord.Packed, txLength)
		copy(tx, record[n:n+txLength])
		n += txLength
		block.Transactions[i] = tx
	}

	proofLength, count := util.FromVarint64(record[n:])
	if 0 == count || proofLength > maxProofLength {
		return nil, fault.RecordCorrupt
	}
	n += count
	if n+int(proofLength) > len(record) {
		return nil, fault.RecordCorrupt
	}
	block.Proof = make([]byte, proofLength)
	copy(block.Proof, record[n:n+int(proofLength)])
	n += int(proofLength)

	if n != len(record) {
		return nil, fault.RecordTrailingBytes
	}

	return block, nil
}
