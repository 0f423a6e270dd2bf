// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package record holds the address record persisted by the address program
// and its two wire encodings: the canonical borsh layout ([AddressInfo.Marshal],
// [Unmarshal]) and a hand-rolled little-endian layout ([AddressInfo.ToLEBytes],
// [FromLEBytes]). Both produce identical bytes for the same record.
package record

// AddressInfo is the record stored in an address account. Field order is
// part of the encoding.
type AddressInfo struct {
	Name        string `json:"name" yaml:"name"`
	HouseNumber uint8  `json:"house_number" yaml:"house_number"`
	Street      string `json:"street" yaml:"street"`
	City        string `json:"city" yaml:"city"`
}

func New(name string, houseNumber uint8, street string, city string) *AddressInfo {
	return &AddressInfo{
		Name:        name,
		HouseNumber: houseNumber,
		Street:      street,
		City:        city,
	}
}

// String implements fmt.Stringer.
func (a *AddressInfo) String() string {
	return a.Name
}
