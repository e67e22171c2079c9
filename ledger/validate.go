// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"runtime"
	"sync"

	"github.com/zerochain/zerod/digest"
	"github.com/zerochain/zerod/fault"
	"github.com/zerochain/zerod/transactionrecord"
)

// verifyAgainstSets - check a block's transactions against the
// committed serial number and commitment sets
//
// every consumed serial number must be absent, every referenced
// commitment must exist either in the committed set or earlier in the
// same block, and every produced commitment must be new
//
// the checks are pure point reads so they fan out across a bounded
// worker pool; the exclusive guard is already held so the sets cannot
// move underneath the workers
func (l *Ledger) verifyAgainstSets(txs []*transactionrecord.Transaction, localCommitments map[digest.Digest]struct{}) error {

	if 0 == len(txs) {
		return nil
	}

	workers := runtime.NumCPU()
	if workers > len(txs) {
		workers = len(txs)
	}

	jobs := make(chan *transactionrecord.Transaction, len(txs))
	results := make(chan error, len(txs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tx := range jobs {
				results <- l.verifyTransaction(tx, localCommitments)
			}
		}()
	}

	for _, tx := range txs {
		jobs <- tx
	}
	close(jobs)
	wg.Wait()
	close(results)

	for err := range results {
		if nil != err {
			return err
		}
	}
	return nil
}

// read-only verification of a single transaction
func (l *Ledger) verifyTransaction(tx *transactionrecord.Transaction, localCommitments map[digest.Digest]struct{}) error {

	for _, spend := range tx.Spends {

		spent, err := l.store.Pool.SerialNumbers.Has(spend.SerialNumber[:])
		if nil != err {
			return err
		}
		if spent {
			return fault.DoubleSpend
		}

		if _, ok := localCommitments[spend.Commitment]; ok {
			continue
		}
		present, err := l.store.Pool.Commitments.Has(spend.Commitment[:])
		if nil != err {
			return err
		}
		if !present {
			return fault.CommitmentNotFound
		}
	}

	for _, commitment := range tx.Commitments {
		present, err := l.store.Pool.Commitments.Has(commitment[:])
		if nil != err {
			return err
		}
		if present {
			return fault.CommitmentExists
		}
	}

	return nil
}
