// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockrecord - block structure and its binary encoding
//
// Packed layout, all integers as Varint64:
//
//   version        - currently 1
//   height         - dense from 0 (genesis)
//   previous block - 32 byte digest, all zero for genesis
//   timestamp      - seconds since Unix epoch
//   transactions   - count followed by length prefixed packed transactions
//   proof          - length prefixed aggregate proof blob
//
// the block digest is the SHA3-256 digest of the complete packed bytes
package blockrecord
