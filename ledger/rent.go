// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

const (
	// AccountStorageOverhead is charged on top of the data length of every
	// account.
	AccountStorageOverhead = 128

	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2.0
)

// RentCalculator reports the balance an account of [dataLen] bytes must
// hold to be exempt from rent collection.
type RentCalculator interface {
	MinimumBalance(dataLen uint64) uint64
}

var _ RentCalculator = (*Rent)(nil)

type Rent struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemption_threshold"`
}

func DefaultRent() *Rent {
	return &Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
	}
}

func (r *Rent) MinimumBalance(dataLen uint64) uint64 {
	bytes := AccountStorageOverhead + dataLen
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}
