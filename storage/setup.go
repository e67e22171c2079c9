// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"reflect"

	"github.com/bitmark-inc/logger"

	"github.com/zerochain/zerod/fault"
)

// Pools - the set of typed pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type Pools struct {
	Blocks        *PoolHandle `prefix:"B"`
	BlockDigests  *PoolHandle `prefix:"2"`
	Transactions  *PoolHandle `prefix:"T"`
	Commitments   *PoolHandle `prefix:"C"`
	SerialNumbers *PoolHandle `prefix:"S"`
	Metadata      *PoolHandle `prefix:"M"`
	TestData      *PoolHandle `prefix:"Z"`
}

// backend selection names for configuration files
const (
	LevelDBBackend = "leveldb"
	MemoryBackend  = "memory"
)

// Store - the explicit storage handle
//
// owned by the Ledger and passed by reference to anything needing
// access; there is deliberately no package global instance
type Store struct {
	Pool Pools

	log    *logger.L
	access Access
}

// Open - open a store using the backend selected by configuration
func Open(log *logger.L, backend string, name string) (*Store, error) {
	var access Access

	switch backend {
	case LevelDBBackend:
		a, err := OpenLevelDB(name)
		if nil != err {
			return nil, err
		}
		access = a
	case MemoryBackend:
		access = NewMemoryAccess()
	default:
		return nil, fault.InvalidBackend
	}

	return NewStore(log, access)
}

// NewStore - assemble the typed pools over an already opened backend
func NewStore(log *logger.L, access Access) (*Store, error) {
	store := &Store{
		log:    log,
		access: access,
	}

	// this will be a struct type
	poolType := reflect.TypeOf(store.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&store.Pool).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return nil, fault.InvalidStructPointer
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			access: access,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	log.Info("store open")
	return store, nil
}

// NewBatch - start accumulating an atomic write set
func (store *Store) NewBatch() *Batch {
	return &Batch{store: store}
}

// Close - release the backend
func (store *Store) Close() error {
	store.log.Info("store close")
	return store.access.Close()
}
