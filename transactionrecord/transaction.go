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

// Version - current transaction record version
const Version = 1

// field limits
const (
	maxSpends      = 512
	maxCommitments = 512
	maxPayloads    = 512
	// encrypted record and proof blobs are produced by the prover and
	// have a bounded size there; this only guards against corrupt records
	maxPayloadLength = 32768
	maxProofLength   = 1048576
)

// Packed - a packed transaction record
type Packed []byte

// Spend - one consumed output: the revealed serial number and the
// commitment it marks as spent
type Spend struct {
	SerialNumber digest.Digest `json:"serialNumber"`
	Commitment   digest.Digest `json:"commitment"`
}

// Transaction - the unpacked transaction record
//
// immutable once committed to the ledger
type Transaction struct {
	Spends      []Spend         `json:"spends"`
	Commitments []digest.Digest `json:"commitments"`
	Payloads    [][]byte        `json:"payloads"`
	Proof       []byte          `json:"proof"`
	Fee         uint64          `json:"fee"`
}

// Pack - pack a transaction into its binary form
//
// Pack Varint64(version) followed by fields in the order of the
// struct above, proof second to last and fee last
func (tx *Transaction) Pack() (Packed, error) {
	if len(tx.Spends) > maxSpends {
		return nil, fault.InvalidTransactionCount
	}
	if len(tx.Commitments) > maxCommitments {
		return nil, fault.InvalidTransactionCount
	}
	if len(tx.Payloads) > maxPayloads {
		return nil, fault.InvalidTransactionCount
	}
	if len(tx.Proof) > maxProofLength {
		return nil, fault.InvalidTransactionCount
	}

	// concatenate bytes
	message := util.ToVarint64(Version)

	message = appendUint64(message, uint64(len(tx.Spends)))
	for _, spend := range tx.Spends {
		message = append(message, spend.SerialNumber[:]...)
		message = append(message, spend.Commitment[:]...)
	}

	message = appendUint64(message, uint64(len(tx.Commitments)))
	for _, commitment := range tx.Commitments {
		message = append(message, commitment[:]...)
	}

	message = appendUint64(message, uint64(len(tx.Payloads)))
	for _, payload := range tx.Payloads {
		if len(payload) > maxPayloadLength {
			return nil, fault.InvalidTransactionCount
		}
		message = appendBytes(message, payload)
	}

	message = appendBytes(message, tx.Proof)
	message = appendUint64(message, tx.Fee)

	return message, nil
}

// TxId - the transaction identifier of a packed record
func (record Packed) TxId() digest.Digest {
	return digest.NewDigest(record)
}

// append a byte block prefixed by its Varint64(length)
func appendBytes(buffer Packed, data []byte) Packed {
	l := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, l...)
	buffer = append(buffer, data...)
	return buffer
}

// append a Varint64 to buffer
func appendUint64(buffer Packed, value uint64) Packed {
	valueBytes := util.ToVarint64(value)
	buffer = append(buffer, valueBytes...)
	return buffer
}
