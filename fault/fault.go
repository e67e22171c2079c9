// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
//
// ExistsError   - a record is already present and may not be overwritten
// InvalidError  - a ledger invariant would be violated by the operation
// NotFoundError - a key is absent; an explicit empty result, not a failure
// ProcessError  - the backing store failed; the operation was not applied
// RecordError   - a stored record failed to decode; never defaulted
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	BatchAlreadySpent       = InvalidError("batch already spent")
	BlockNotFound           = NotFoundError("block not found")
	CommitmentExists        = ExistsError("commitment already exists")
	CommitmentNotFound      = InvalidError("referenced commitment not found")
	DatabaseIsNotSet        = ProcessError("database is not set")
	DoubleSpend             = InvalidError("serial number already spent")
	HeightOutOfSequence     = InvalidError("block height out of sequence")
	InvalidBackend          = InvalidError("invalid storage backend")
	InvalidBlockVersion     = RecordError("invalid block version")
	InvalidCount            = InvalidError("invalid count")
	InvalidCursor           = InvalidError("invalid cursor")
	InvalidRollbackHeight   = InvalidError("invalid rollback height")
	InvalidStructPointer    = InvalidError("invalid struct pointer")
	InvalidTransactionCount = InvalidError("invalid transaction count")
	InvalidTxVersion        = RecordError("invalid transaction version")
	LedgerIsEmpty           = NotFoundError("ledger is empty")
	PreviousDigestMismatch  = InvalidError("previous block digest does not match")
	RecordCorrupt           = RecordError("stored record is corrupt")
	RecordTooShort          = RecordError("stored record is too short")
	RecordTrailingBytes     = RecordError("stored record has trailing bytes")
	TransactionNotFound     = NotFoundError("transaction not found")
	WrongDatabaseVersion    = ProcessError("wrong database version")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// IsErrExists - determine if an error is an exists error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - determine if an error is an invariant violation
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrLength - determine if an error is a length error
func IsErrLength(e error) bool { _, ok := e.(LengthError); return ok }

// IsErrNotFound - determine if an error is a not found error
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - determine if an error is a backend failure
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }

// IsErrRecord - determine if an error is a record corruption
func IsErrRecord(e error) bool { _, ok := e.(RecordError); return ok }
