// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transactionrecord - transaction structure and its binary encoding
//
// A transaction consumes commitments by revealing their serial
// numbers and produces fresh commitments for the new outputs.  The
// zero-knowledge proof attached to it is an opaque byte blob at this
// layer; only the structural fields are interpreted.
//
// Packed layout, all integers as Varint64:
//
//   version       - currently 1
//   spend count   - followed by (serial number ++ commitment) pairs
//   commitments   - count followed by the produced commitment digests
//   payloads      - count followed by length prefixed encrypted outputs
//   proof         - length prefixed opaque proof blob
//   fee           - unsigned fee value
//
// the transaction id is the SHA3-256 digest of the packed bytes
package transactionrecord
