// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/record"
)

// NewCreateAddressInstruction builds the instruction that stores [info] in a
// new account at [address], paid for by [payer]. Both must sign the
// transaction.
func NewCreateAddressInstruction(
	programID codec.Address,
	payer codec.Address,
	address codec.Address,
	info *record.AddressInfo,
) (*ledger.Instruction, error) {
	if programID == codec.EmptyAddress {
		return nil, ErrMissingProgramID
	}
	data, err := info.Marshal()
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: programID,
		Data:      data,
		Accounts: []ledger.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: address, IsWritable: true, IsSigner: true},
			{PublicKey: ledger.SystemProgramID, IsWritable: false, IsSigner: false},
		},
	}, nil
}
