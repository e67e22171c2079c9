// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/zerochain/zerod/fault"
)

// PoolHandle - one typed pool inside the store
//
// all keys are transparently prefixed by the pool's single byte tag
type PoolHandle struct {
	prefix byte
	limit  []byte
	access Access
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Get - read a value for a given key
//
// a nil value with a nil error is an explicit not found result
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	return p.access.Get(p.prefixKey(key))
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second return is false if the record was not found
func (p *PoolHandle) GetN(key []byte) (uint64, bool, error) {
	buffer, err := p.Get(key)
	if nil != err {
		return 0, false, err
	}
	if nil == buffer {
		return 0, false, nil
	}
	if len(buffer) < 8 {
		return 0, false, fault.RecordTooShort
	}
	n := binary.BigEndian.Uint64(buffer[:8])
	return n, true, nil
}

// GetNB - read a record and decode first 8 bytes as big endian uint64
// and return the rest of the record as a byte slice
//
// second return is nil if the record was not found
func (p *PoolHandle) GetNB(key []byte) (uint64, []byte, error) {
	buffer, err := p.Get(key)
	if nil != err {
		return 0, nil, err
	}
	if nil == buffer {
		return 0, nil, nil
	}
	if len(buffer) < 9 { // must have at least one byte after the N value
		return 0, nil, fault.RecordTooShort
	}
	n := binary.BigEndian.Uint64(buffer[:8])
	return n, buffer[8:], nil
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	return p.access.Has(p.prefixKey(key))
}

// Put - store a key/value pair as a single operation batch
func (p *PoolHandle) Put(key []byte, value []byte) error {
	op := Op{
		Key:   p.prefixKey(key),
		Value: value,
	}
	return p.access.Commit([]Op{op})
}

// Delete - remove a key as a single operation batch
func (p *PoolHandle) Delete(key []byte) error {
	op := Op{
		Remove: true,
		Key:    p.prefixKey(key),
	}
	return p.access.Commit([]Op{op})
}

// LastElement - get the element with the highest key in the pool
func (p *PoolHandle) LastElement() (Element, bool, error) {
	iter := p.access.Iterate([]byte{p.prefix}, p.limit)
	defer iter.Release()

	found := false
	result := Element{}
	if iter.Last() {

		// contents of the returned slices must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		result.Key = dataKey
		result.Value = dataValue
		found = true
	}
	if err := iter.Error(); nil != err {
		return Element{}, false, err
	}
	return result, found, nil
}
