// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"math/big"

	"github.com/zerochain/zerod/fault"
)

// FetchCursor - restartable iteration position inside one pool
type FetchCursor struct {
	pool  *PoolHandle
	start []byte
	limit []byte
}

// NewFetchCursor - initialise a cursor to the start of a key range
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		pool:  p,
		start: []byte{p.prefix}, // start of key range, included in the range
		limit: p.limit,          // limit of key range, excluded from the range
	}
}

// Seek - move cursor to a specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.start = cursor.pool.prefixKey(key)
	return cursor
}

// to increment the key
var one = big.NewInt(1)

// Fetch - return some elements starting from the cursor position
//
// each call observes a fresh snapshot; the cursor advances past the
// last returned key so successive calls never overlap
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.InvalidCursor
	}
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	iter := cursor.pool.access.Iterate(cursor.start, cursor.limit)

	results := make([]Element, 0, count)
	n := 0
iterating:
	for iter.Next() {

		// contents of the returned slices must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		results = append(results, Element{
			Key:   dataKey,
			Value: dataValue,
		})
		n += 1
		if n >= count {
			break iterating
		}
	}
	iter.Release()
	err := iter.Error()

	if n > 0 {
		// advance to the key immediately after the last one returned,
		// right aligned so fixed width keys keep their leading zeros
		keyLen := len(results[n-1].Key)
		b := big.Int{}
		buffer := b.SetBytes(results[n-1].Key).Add(&b, one).Bytes()
		if len(buffer) > keyLen {
			keyLen = len(buffer)
		}
		cursor.start = make([]byte, keyLen+1)
		cursor.start[0] = cursor.pool.prefix
		copy(cursor.start[1+keyLen-len(buffer):], buffer)
	}
	return results, err
}

// Map - run a function over all remaining elements in the range
func (cursor *FetchCursor) Map(f func(key []byte, value []byte) error) error {
	if nil == cursor {
		return fault.InvalidCursor
	}

	iter := cursor.pool.access.Iterate(cursor.start, cursor.limit)

	var err error
iterating:
	for iter.Next() {

		// contents of the returned slices must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		err = f(dataKey, dataValue)
		if nil != err {
			break iterating
		}
	}
	iter.Release()
	if nil == err {
		err = iter.Error()
	}
	return err
}
