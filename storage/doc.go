// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk ledger data store
//
// The store is split into a series of typed pools in key->value form.
// Each pool is defined by a single byte prefix that is obtained from
// the prefix tag in the struct defining the available pools, so two
// pools never share key space even though they live in one backend.
//
// The backend itself is polymorphic: the production backend is an
// embedded LevelDB instance, a deterministic in-memory backend is
// provided for tests.  Both offer point lookups, ordered iteration
// and an atomic batch commit; multi-pool updates are made indivisible
// by accumulating them in a Batch and committing once.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys)
// 2. ++            = concatenation of byte data
// 3. block number  = big endian uint64 (8 bytes)
// 4. digest        = 32 byte SHA3-256
//
// Pools:
//
//   B ++ block number       - packed block
//   2 ++ block digest       - block number
//   T ++ transaction id     - block number ++ packed transaction
//   C ++ commitment         - block number that introduced it
//   S ++ serial number      - block number that spent it
//   M ++ "tip"              - block number ++ block digest
//
// Testing:
//
//   Z ++ key                - testing data
package storage
