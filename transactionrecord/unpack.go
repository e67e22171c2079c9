// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/util"
)

// Unpack - turn a byte slice back into a transaction record
//
// returns the record and the number of bytes consumed so that
// concatenated records can be unpacked in sequence
//
// a decode failure is always surfaced as a record error
func (record Packed) Unpack() (tx *Transaction, n int, e error) {

	// protects the index arithmetic below against truncated records
	defer func() {
		if r := recover(); nil != r {
			tx = nil
			n = 0
			e = fault.RecordCorrupt
		}
	}()

	version, n := util.FromVarint64(record)
	if 0 == n {
		return nil, 0, fault.RecordTooShort
	}
	if Version != version {
		return nil, 0, fault.InvalidTxVersion
	}

	tx = &Transaction{}

	// spends
	spendCount, count := util.ClippedVarint64(record[n:], 0, maxSpends)
	if 0 == count {
		return nil, 0, fault.RecordCorrupt
	}
	n += count
	tx.Spends = make([]Spend, spendCount)
	for i := 0; i < spendCount; i += 1 {
		err := digest.FromBytes(&tx.Spends[i].SerialNumber, record[n:n+digest.Length])
		if nil != err {
			return nil, 0, fault.RecordCorrupt
		}
		n += digest.Length
		err = digest.FromBytes(&tx.Spends[i].Commitment, record[n:n+digest.Length])
		if nil != err {
			return nil, 0, fault.RecordCorrupt
		}
		n += digest.Length
	}

	// produced commitments
	commitmentCount, count := util.ClippedVarint64(record[n:], 0, maxCommitments)
	if 0 == count {
		return nil, 0, fault.RecordCorrupt
	}
	n += count
	tx.Commitments = make([]digest.Digest, commitmentCount)
	for i := 0; i < commitmentCount; i += 1 {
		err := digest.FromBytes(&tx.Commitments[i], record[n:n+digest.Length])
		if nil != err {
			return nil, 0, fault.RecordCorrupt
		}
		n += digest.Length
	}

	// encrypted output payloads
	payloadCount, count := util.ClippedVarint64(record[n:], 0, maxPayloads)
	if 0 == count {
		return nil, 0, fault.RecordCorrupt
	}
	n += count
	tx.Payloads = make([][]byte, payloadCount)
	for i := 0; i < payloadCount; i += 1 {
		payload, length := unpackBytes(record[n:], maxPayloadLength)
		if length < 0 {
			return nil, 0, fault.RecordCorrupt
		}
		n += length
		tx.Payloads[i] = payload
	}

	// proof blob
	proof, length := unpackBytes(record[n:], maxProofLength)
	if length < 0 {
		return nil, 0, fault.RecordCorrupt
	}
	n += length
	tx.Proof = proof

	// fee
	fee, count := util.FromVarint64(record[n:])
	if 0 == count {
		return nil, 0, fault.RecordCorrupt
	}
	n += count
	tx.Fee = fee

	return tx, n, nil
}

// UnpackExact - unpack a record that must occupy the whole buffer
//
// trailing bytes after a stored record indicate corruption
func (record Packed) UnpackExact() (*Transaction, error) {
	tx, n, err := record.Unpack()
	if nil != err {
		return nil, err
	}
	if n != len(record) {
		return nil, fault.RecordTrailingBytes
	}
	return tx, nil
}

// unpack a Varint64(length) prefixed byte block
//
// returns a copy of the data and the total bytes consumed,
// -1 on truncation or if the length exceeds the limit
func unpackBytes(buffer []byte, limit int) ([]byte, int) {
	length, count := util.FromVarint64(buffer)
	if 0 == count {
		return nil, -1
	}
	if length > uint64(limit) {
		return nil, -1
	}
	n := count + int(length)
	if n > len(buffer) {
		return nil, -1
	}
	data := make([]byte, length)
	copy(data, buffer[count:n])
	return data, n
}
