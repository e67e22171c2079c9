// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest - the SHA3-256 digest used throughout the ledger
//
// Block hashes, transaction ids, commitments and serial numbers are
// all opaque 32 byte digests of this type.
package digest
