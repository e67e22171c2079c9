// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"sort"
	"sync"

	"github.com/zerochain/zerod/fault"
)

// deterministic in-memory backend for tests
//
// selected by configuration, never by build tags; keeps the same
// atomicity and snapshot-iteration semantics as the LevelDB backend
type memoryAccess struct {
	sync.RWMutex
	table map[string][]byte
}

// NewMemoryAccess - create an empty in-memory backend
func NewMemoryAccess() Access {
	return &memoryAccess{
		table: make(map[string][]byte),
	}
}

func (access *memoryAccess) Get(key []byte) ([]byte, error) {
	access.RLock()
	defer access.RUnlock()

	if nil == access.table {
		return nil, fault.DatabaseIsNotSet
	}
	value, found := access.table[string(key)]
	if !found {
		return nil, nil
	}
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (access *memoryAccess) Has(key []byte) (bool, error) {
	access.RLock()
	defer access.RUnlock()

	if nil == access.table {
		return false, fault.DatabaseIsNotSet
	}
	_, found := access.table[string(key)]
	return found, nil
}

func (access *memoryAccess) Iterate(start []byte, limit []byte) Iterator {
	access.RLock()
	defer access.RUnlock()

	// snapshot the range so later mutations never show through
	elements := make([]Element, 0, 16)
	for key, value := range access.table {
		k := []byte(key)
		if bytes.Compare(k, start) < 0 {
			continue
		}
		if nil != limit && bytes.Compare(k, limit) >= 0 {
			continue
		}
		v := make([]byte, len(value))
		copy(v, value)
		elements = append(elements, Element{Key: k, Value: v})
	}
	sort.Slice(elements, func(i, j int) bool {
		return bytes.Compare(elements[i].Key, elements[j].Key) < 0
	})

	return &memoryIterator{elements: elements, index: -1}
}

func (access *memoryAccess) Commit(ops []Op) error {
	access.Lock()
	defer access.Unlock()

	if nil == access.table {
		return fault.DatabaseIsNotSet
	}
	for _, op := range ops {
		if op.Remove {
			delete(access.table, string(op.Key))
		} else {
			value := make([]byte, len(op.Value))
			copy(value, op.Value)
			access.table[string(op.Key)] = value
		}
	}
	return nil
}

func (access *memoryAccess) Close() error {
	access.Lock()
	access.table = nil
	access.Unlock()
	return nil
}

// iterator over a sorted snapshot
type memoryIterator struct {
	elements []Element
	index    int
}

func (it *memoryIterator) Next() bool {
	if it.index+1 >= len(it.elements) {
		return false
	}
	it.index += 1
	return true
}

func (it *memoryIterator) Last() bool {
	if 0 == len(it.elements) {
		return false
	}
	it.index = len(it.elements) - 1
	return true
}

func (it *memoryIterator) Key() []byte {
	if it.index < 0 || it.index >= len(it.elements) {
		return nil
	}
	return it.elements[it.index].Key
}

func (it *memoryIterator) Value() []byte {
	if it.index < 0 || it.index >= len(it.elements) {
		return nil
	}
	return it.elements[it.index].Value
}

func (it *memoryIterator) Release() {
	it.elements = nil
}

func (it *memoryIterator) Error() error {
	return nil
}
