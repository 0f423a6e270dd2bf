// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen   = 1
	BoolLen   = 1
	IntLen    = 4
	Uint32Len = 4
	Uint64Len = 8
	MaxUint32 = ^uint32(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)

	// PubkeyLen is the size of an ed25519 public key, which doubles as
	// the size of every ledger address.
	PubkeyLen = 32

	KiB = 1024
	MiB = 1024 * KiB
)
