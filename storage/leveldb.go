// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/zerochain/zerod/fault"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDatabaseVersion = 0x100

// read cache settings
const (
	defaultTimeout    = 1 * time.Minute
	defaultExpiration = 2 * time.Minute
)

// production backend: an embedded LevelDB instance with a small
// expiring read cache in front of point lookups
type levelAccess struct {
	db    *leveldb.DB
	cache *cache.Cache
}

// OpenLevelDB - open (or create) the database file
//
// an empty database is stamped with the current version; any other
// version is refused to prevent running on an incompatible store
func OpenLevelDB(name string) (Access, error) {
	db, err := leveldb.OpenFile(name, nil)
	if nil != err {
		return nil, err
	}

	version, err := databaseVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	switch version {
	case currentDatabaseVersion:
		// ok
	case 0:
		// database was empty so tag as current version
		err = putDatabaseVersion(db, currentDatabaseVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
	default:
		db.Close()
		return nil, fault.WrongDatabaseVersion
	}

	return &levelAccess{
		db:    db,
		cache: cache.New(defaultTimeout, defaultExpiration),
	}, nil
}

func (access *levelAccess) Get(key []byte) ([]byte, error) {
	if cached, found := access.cache.Get(string(key)); found {
		return cached.([]byte), nil
	}
	value, err := access.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	} else if nil != err {
		return nil, err
	}
	access.cache.Set(string(key), value, defaultExpiration)
	return value, nil
}

func (access *levelAccess) Has(key []byte) (bool, error) {
	if _, found := access.cache.Get(string(key)); found {
		return true, nil
	}
	return access.db.Has(key, nil)
}

func (access *levelAccess) Iterate(start []byte, limit []byte) Iterator {
	searchRange := &ldb_util.Range{
		Start: start, // start of key range, included in the range
		Limit: limit, // limit of key range, excluded from the range
	}
	return access.db.NewIterator(searchRange, nil)
}

func (access *levelAccess) Commit(ops []Op) error {
	batch := new(leveldb.Batch)
	for _, op := range ops {
		if op.Remove {
			batch.Delete(op.Key)
		} else {
			batch.Put(op.Key, op.Value)
		}
	}
	err := access.db.Write(batch, nil)
	if nil != err {
		return err
	}

	// drop any cached entries the commit touched so readers never
	// observe a value the committed store no longer holds
	for _, op := range ops {
		access.cache.Delete(string(op.Key))
	}
	return nil
}

func (access *levelAccess) Close() error {
	access.cache.Flush()
	return access.db.Close()
}

// fetch the version record
//
// returns zero for a database without one
func databaseVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	if 4 != len(versionValue) {
		return 0, fault.WrongDatabaseVersion
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putDatabaseVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return db.Put(versionKey, currentVersion, nil)
}
