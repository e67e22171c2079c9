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

// Version - current block record version
const Version = 1

// field limits
const (
	maxTransactions = 4096
	maxTxLength     = 4194304
	maxProofLength  = 1048576
)

// PackedBlock - a packed block record
type PackedBlock []byte

// Block - the unpacked block record
//
// Digest is derived from the packed bytes, not stored in them
type Block struct {
	Digest        digest.Digest              `json:"digest"`
	Height        uint64                     `json:"height"`
	PreviousBlock digest.Digest              `json:"previousBlock"`
	Timestamp     uint64                     `json:"timestamp"`
	Transactions  []transactionrecord.Packed `json:"transactions"`
	Proof         []byte                     `json:"proof"`
}

// Pack - pack a block into its binary form
func (block *Block) Pack() (PackedBlock, error) {
	if len(block.Transactions) > maxTransactions {
		return nil, fault.InvalidTransactionCount
	}
	if len(block.Proof) > maxProofLength {
		return nil, fault.InvalidCount
	}

	// concatenate bytes
	message := util.ToVarint64(Version)
	message = append(message, util.ToVarint64(block.Height)...)
	message = append(message, block.PreviousBlock[:]...)
	message = append(message, util.ToVarint64(block.Timestamp)...)

	message = append(message, util.ToVarint64(uint64(len(block.Transactions)))...)
	for _, tx := range block.Transactions {
		if 0 == len(tx) || len(tx) > maxTxLength {
			return nil, fault.InvalidTransactionCount
		}
		message = append(message, util.ToVarint64(uint64(len(tx)))...)
		message = append(message, tx...)
	}

	message = append(message, util.ToVarint64(uint64(len(block.Proof)))...)
	message = append(message, block.Proof...)

	return PackedBlock(message), nil
}

// Digest - the block digest of a packed record
func (record PackedBlock) Digest() digest.Digest {
	return digest.NewDigest(record)
}
