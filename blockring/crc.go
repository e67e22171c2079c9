// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockring

import (
	"hash/crc64"
)

// create the CRC64 table
var table = crc64.MakeTable(crc64.ECMA)

// CRC - checksum a packed block
//
// the height is folded in as the initial value so identical block
// bytes at different heights never share a checksum
func CRC(height uint64, packed []byte) uint64 {
	return crc64.Update(height, table, packed)
}
