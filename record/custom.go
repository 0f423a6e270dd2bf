// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/ava-labs/addressvm/consts"
)

// ToLEBytes encodes a without the borsh serializer: each string is a u32
// little-endian length followed by its bytes and the house number is a
// single byte.
func (a *AddressInfo) ToLEBytes() []byte {
	b := make([]byte, 0, 3*consts.Uint32Len+consts.ByteLen+len(a.Name)+len(a.Street)+len(a.City))
	b = putString(b, a.Name)
	b = append(b, a.HouseNumber)
	b = putString(b, a.Street)
	return putString(b, a.City)
}

func putString(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

// FromLEBytes decodes the layout written by [AddressInfo.ToLEBytes] and
// returns the record along with the number of bytes consumed. Bytes past
// the record are left for the caller.
func FromLEBytes(b []byte) (*AddressInfo, int, error) {
	var (
		a      AddressInfo
		offset int
		err    error
	)
	a.Name, err = getString(b, &offset, errShortNameLen, errShortName, errBadNameUTF8)
	if err != nil {
		return nil, 0, err
	}
	if len(b)-offset < consts.ByteLen {
		return nil, 0, errShortHouse
	}
	a.HouseNumber = b[offset]
	offset += consts.ByteLen

	a.Street, err = getString(b, &offset, errShortStreetLen, errShortStreet, errBadStreetUTF8)
	if err != nil {
		return nil, 0, err
	}
	a.City, err = getString(b, &offset, errShortCityLen, errShortCity, errBadCityUTF8)
	if err != nil {
		return nil, 0, err
	}
	return &a, offset, nil
}

func getString(src []byte, offset *int, shortLen, shortBody, badUTF8 error) (string, error) {
	if len(src)-*offset < consts.Uint32Len {
		return "", shortLen
	}
	l := binary.LittleEndian.Uint32(src[*offset:])
	*offset += consts.Uint32Len

	// Compare in uint64 so a huge prefix can't overflow int on 32-bit hosts.
	if uint64(len(src)-*offset) < uint64(l) {
		return "", shortBody
	}
	body := src[*offset : *offset+int(l)]
	if !utf8.Valid(body) {
		return "", badUTF8
	}
	*offset += int(l)
	return string(body), nil
}
