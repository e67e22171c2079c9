// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/zerochain/zerod/blockring"
	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/storage"
)

// the single chain metadata record
var metadataKey = []byte("tip")

// Ledger - the domain layer handle
//
// all exported methods are safe for concurrent use; reads share the
// guard, mutations hold it exclusively
type Ledger struct {
	sync.RWMutex

	log   *logger.L
	store *storage.Store
	ring  *blockring.Ring

	// guarded chain state, valid only while empty is false
	height uint64
	tip    digest.Digest
	empty  bool
}

// New - open a ledger over an already opened store
//
// the current height and tip are recovered from the metadata record
// alone; a missing record means an empty chain, a short or damaged
// one is surfaced as corruption and must be treated as fatal
func New(log *logger.L, store *storage.Store, ringSize int) (*Ledger, error) {

	l := &Ledger{
		log:   log,
		store: store,
		ring:  blockring.New(log, ringSize),
		empty: true,
	}

	value, err := store.Pool.Metadata.Get(metadataKey)
	if nil != err {
		return nil, err
	}
	if nil == value {
		log.Info("no chain metadata, starting empty")
		return l, nil
	}
	if 8+digest.Length != len(value) {
		log.Criticalf("chain metadata damaged: %x", value)
		return nil, fault.RecordCorrupt
	}

	l.height = binary.BigEndian.Uint64(value[:8])
	if err := digest.FromBytes(&l.tip, value[8:]); nil != err {
		return nil, fault.RecordCorrupt
	}
	l.empty = false

	log.Infof("recovered chain: height: %d  tip: %v", l.height, l.tip)
	return l, nil
}

// Height - the current chain height
//
// only meaningful when IsEmpty returns false; an empty chain reports 0
func (l *Ledger) Height() uint64 {
	l.RLock()
	defer l.RUnlock()
	return l.height
}

// IsEmpty - true until a genesis block has been committed
func (l *Ledger) IsEmpty() bool {
	l.RLock()
	defer l.RUnlock()
	return l.empty
}

// TipDigest - digest of the highest committed block
func (l *Ledger) TipDigest() (digest.Digest, error) {
	l.RLock()
	defer l.RUnlock()
	if l.empty {
		return digest.Digest{}, fault.LedgerIsEmpty
	}
	return l.tip, nil
}

// big endian height as a fixed width pool key
func heightKey(height uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, height)
	return key
}

// height ++ digest metadata record
func metadataValue(height uint64, d digest.Digest) []byte {
	value := make([]byte, 8, 8+digest.Length)
	binary.BigEndian.PutUint64(value, height)
	return append(value, d[:]...)
}
