// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"crypto/rand"

	"github.com/mr-tron/base58"

	"github.com/ava-labs/addressvm/consts"
)

const AddressLen = consts.PubkeyLen

// Address identifies a ledger account. Addresses of keyed accounts are
// the raw bytes of their ed25519 public key.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// ToAddress returns the Address made from [b]. [b] must be exactly
// [AddressLen] bytes.
func ToAddress(b []byte) (Address, error) {
	if len(b) != AddressLen {
		return EmptyAddress, ErrInvalidAddress
	}
	return Address(b), nil
}

// StringToAddress parses the base58 form of an address.
func StringToAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}

// MustStringToAddress is StringToAddress for well-known constants.
func MustStringToAddress(s string) Address {
	a, err := StringToAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// NewUniqueAddress returns a random address that is not backed by a key.
func NewUniqueAddress() Address {
	var a Address
	if _, err := rand.Read(a[:]); err != nil {
		panic(err)
	}
	return a
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// MarshalText returns the base58 representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a base58-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := StringToAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
