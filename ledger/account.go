// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"bytes"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/consts"
)

// MaxPermittedDataLength bounds the data buffer of a single account.
const MaxPermittedDataLength = 10 * consts.MiB

// Account is the persisted portion of a ledger account.
type Account struct {
	Lamports   uint64        `json:"lamports"`
	Owner      codec.Address `json:"owner"`
	Executable bool          `json:"executable"`
	Data       []byte        `json:"data"`
}

// Exists is false for accounts that hold neither lamports nor data. Such
// accounts are never stored.
func (a *Account) Exists() bool {
	return a.Lamports > 0 || len(a.Data) > 0
}

func (a *Account) Size() int {
	return consts.Uint64Len + codec.AddressLen + consts.BoolLen + codec.BytesLen(a.Data)
}

// Marshal packs a as [lamports][owner][executable][len(data)][data].
func (a *Account) Marshal() ([]byte, error) {
	p := &wrappers.Packer{
		Bytes:   make([]byte, 0, a.Size()),
		MaxSize: a.Size(),
	}
	p.PackLong(a.Lamports)
	p.PackFixedBytes(a.Owner[:])
	p.PackBool(a.Executable)
	p.PackBytes(a.Data)
	return p.Bytes, p.Err
}

func UnmarshalAccount(b []byte) (*Account, error) {
	p := &wrappers.Packer{Bytes: b}
	a := &Account{
		Lamports: p.UnpackLong(),
	}
	copy(a.Owner[:], p.UnpackFixedBytes(codec.AddressLen))
	a.Executable = p.UnpackBool()
	a.Data = p.UnpackBytes()
	if p.Errored() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccountEncoding, p.Err)
	}
	if p.Offset != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidAccountEncoding, len(b)-p.Offset)
	}
	if len(a.Data) > MaxPermittedDataLength {
		return nil, ErrInvalidAccountDataLength
	}
	return a, nil
}

// AccountInfo is the handle a program receives for each account of an
// instruction. Programs mutate Lamports, Data and Owner in place; the
// runtime decides whether the changes are kept.
type AccountInfo struct {
	Key        codec.Address
	IsSigner   bool
	IsWritable bool

	Lamports   uint64
	Data       []byte
	Owner      codec.Address
	Executable bool

	// pre is the state the running program is accountable from and
	// program is the program holding the handle. Both are unset for the
	// handles a transaction starts with.
	pre     *AccountInfo
	program codec.Address
}

func NewAccountInfo(key codec.Address, isSigner bool, isWritable bool, a *Account) *AccountInfo {
	return &AccountInfo{
		Key:        key,
		IsSigner:   isSigner,
		IsWritable: isWritable,
		Lamports:   a.Lamports,
		Data:       bytes.Clone(a.Data),
		Owner:      a.Owner,
		Executable: a.Executable,
	}
}

// Account returns a copy of the persisted portion of the handle.
func (ai *AccountInfo) Account() *Account {
	return &Account{
		Lamports:   ai.Lamports,
		Owner:      ai.Owner,
		Executable: ai.Executable,
		Data:       bytes.Clone(ai.Data),
	}
}

func (ai *AccountInfo) clone() *AccountInfo {
	c := *ai
	c.Data = bytes.Clone(ai.Data)
	c.pre = nil
	return &c
}

// restore copies the mutable state of [from] into ai.
func (ai *AccountInfo) restore(from *AccountInfo) {
	ai.Lamports = from.Lamports
	ai.Data = from.Data
	ai.Owner = from.Owner
}
