// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the chain domain layer over the typed storage pools
//
// a Ledger owns its storage handle, its recent block ring and a
// reader-writer guard; block insertion and rollback take the guard
// exclusively for the whole validate, batch, commit, cache sequence
// so a concurrent reader only ever observes a fully applied state
//
// cross pool consistency is achieved by funnelling every index write
// of one block through a single atomic batch:
//
//   B ++ height   → packed block
//   2 ++ digest   → height
//   T ++ tx id    → height ++ packed transaction
//   C ++ commitment → introducing height
//   S ++ serial   → spending height
//   M ++ "tip"    → height ++ digest
//
// on reopen the current height and tip digest are re-derived solely
// from the metadata record, trusting the backend's durability for
// everything else; there is no scan based repair
package ledger
