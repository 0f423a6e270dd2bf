// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

// Program errors. Programs return these unchanged so callers can match them
// with errors.Is at any depth of invocation.
var (
	ErrInvalidInstructionData   = errors.New("invalid instruction data")
	ErrMissingRequiredSignature = errors.New("missing required signature")
	ErrInvalidAccountData       = errors.New("invalid account data")
	ErrIncorrectProgramID       = errors.New("incorrect program id")
	ErrMissingAccount           = errors.New("not enough account keys")
	ErrAccountDataTooSmall      = errors.New("account data too small")
)

// System program errors.
var (
	ErrAccountAlreadyInUse      = errors.New("account already in use")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInvalidAccountDataLength = errors.New("invalid account data length")
)

// Runtime errors.
var (
	ErrUnsupportedProgramID        = errors.New("unsupported program id")
	ErrProgramAlreadyRegistered    = errors.New("program already registered")
	ErrPrivilegeEscalation         = errors.New("privilege escalation")
	ErrReadonlyDataModified        = errors.New("read-only account modified")
	ErrExternalAccountDataModified = errors.New("data of account not owned by program modified")
	ErrExternalLamportSpend        = errors.New("lamports of account not owned by program debited")
	ErrModifiedProgramID           = errors.New("owner of account not owned by program modified")
	ErrUnbalancedInstruction       = errors.New("sum of account balances changed")
	ErrInvalidSignature            = errors.New("invalid transaction signature")
	ErrEmptyTransaction            = errors.New("transaction has no instructions")
	ErrInvalidAccountEncoding      = errors.New("invalid account encoding")
)
