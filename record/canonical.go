// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/near/borsh-go"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/consts"
)

// Marshal returns the canonical (borsh) encoding of a. The same bytes size
// and populate an address account.
func (a *AddressInfo) Marshal() ([]byte, error) {
	return borsh.Serialize(*a)
}

// Size is the length of the canonical encoding of a.
func (a *AddressInfo) Size() int {
	return codec.StringLen(a.Name) +
		consts.ByteLen +
		codec.StringLen(a.Street) +
		codec.StringLen(a.City)
}

// Unmarshal decodes the canonical encoding in [b]. Every byte of [b] must
// be consumed and every text field must be valid UTF-8.
func Unmarshal(b []byte) (*AddressInfo, error) {
	if err := checkBounds(b); err != nil {
		return nil, err
	}
	var a AddressInfo
	if err := borsh.Deserialize(&a, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}
	if !utf8.ValidString(a.Name) || !utf8.ValidString(a.Street) || !utf8.ValidString(a.City) {
		return nil, errInvalidTextUTF8
	}
	if a.Size() != len(b) {
		return nil, errTrailingBytes
	}
	return &a, nil
}

// checkBounds walks the field framing of [b] and rejects any length prefix
// that declares more bytes than remain. borsh allocates the declared length
// before reading, so it must never see an oversized prefix.
func checkBounds(b []byte) error {
	remaining := b
	skipString := func() bool {
		if len(remaining) < consts.IntLen {
			return false
		}
		n := binary.LittleEndian.Uint32(remaining)
		remaining = remaining[consts.IntLen:]
		if uint64(n) > uint64(len(remaining)) {
			return false
		}
		remaining = remaining[n:]
		return true
	}
	if !skipString() {
		return errOutOfBounds
	}
	if len(remaining) < consts.ByteLen {
		return errOutOfBounds
	}
	remaining = remaining[consts.ByteLen:]
	if !skipString() || !skipString() {
		return errOutOfBounds
	}
	return nil
}
