// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/consts"
)

var (
	SystemProgramID = codec.MustStringToAddress("11111111111111111111111111111111")
	NativeLoaderID  = codec.MustStringToAddress("NativeLoader1111111111111111111111111111111")
)

const (
	createAccountTag uint32 = 0

	createAccountDataLen = consts.Uint32Len + 2*consts.Uint64Len + codec.AddressLen
)

// CreateAccount allocates [Space] zeroed bytes for a new account, funds it
// with [Lamports] and assigns it to [Owner].
type CreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    codec.Address
}

// NewCreateAccountInstruction returns the system instruction funding [to]
// from [from]. Both accounts must sign.
func NewCreateAccountInstruction(
	from codec.Address,
	to codec.Address,
	lamports uint64,
	space uint64,
	owner codec.Address,
) *Instruction {
	return &Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			{PublicKey: from, IsWritable: true, IsSigner: true},
			{PublicKey: to, IsWritable: true, IsSigner: true},
		},
		Data: (&CreateAccount{
			Lamports: lamports,
			Space:    space,
			Owner:    owner,
		}).Marshal(),
	}
}

// Marshal encodes c as [u32 tag][u64 lamports][u64 space][owner], all
// little-endian.
func (c *CreateAccount) Marshal() []byte {
	b := make([]byte, 0, createAccountDataLen)
	b = binary.LittleEndian.AppendUint32(b, createAccountTag)
	b = binary.LittleEndian.AppendUint64(b, c.Lamports)
	b = binary.LittleEndian.AppendUint64(b, c.Space)
	return append(b, c.Owner[:]...)
}

func UnmarshalCreateAccount(b []byte) (*CreateAccount, error) {
	if len(b) != createAccountDataLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidInstructionData, createAccountDataLen, len(b))
	}
	if tag := binary.LittleEndian.Uint32(b); tag != createAccountTag {
		return nil, fmt.Errorf("%w: unknown system instruction %d", ErrInvalidInstructionData, tag)
	}
	c := &CreateAccount{
		Lamports: binary.LittleEndian.Uint64(b[consts.Uint32Len:]),
		Space:    binary.LittleEndian.Uint64(b[consts.Uint32Len+consts.Uint64Len:]),
	}
	copy(c.Owner[:], b[consts.Uint32Len+2*consts.Uint64Len:])
	return c, nil
}

var _ Program = (*systemProgram)(nil)

type systemProgram struct{}

// Execute validates everything before touching a handle so a failed
// CreateAccount leaves both accounts as they were.
func (systemProgram) Execute(ctx context.Context, _ codec.Address, accounts []*AccountInfo, data []byte) error {
	c, err := UnmarshalCreateAccount(data)
	if err != nil {
		return err
	}
	if len(accounts) < 2 {
		return ErrMissingAccount
	}
	from, to := accounts[0], accounts[1]

	if !from.IsSigner {
		Msg(ctx, "Create Account: 'from' account %s must sign", from.Key)
		return ErrMissingRequiredSignature
	}
	if !to.IsSigner {
		Msg(ctx, "Create Account: 'to' account %s must sign", to.Key)
		return ErrMissingRequiredSignature
	}
	if to.Lamports > 0 || len(to.Data) > 0 || to.Owner != SystemProgramID {
		Msg(ctx, "Create Account: account %s already in use", to.Key)
		return ErrAccountAlreadyInUse
	}
	if c.Space > MaxPermittedDataLength {
		Msg(ctx, "Create Account: requested %d bytes, max is %d", c.Space, MaxPermittedDataLength)
		return ErrInvalidAccountDataLength
	}
	if from.Lamports < c.Lamports {
		Msg(ctx, "Transfer: insufficient lamports %d, need %d", from.Lamports, c.Lamports)
		return ErrInsufficientFunds
	}

	from.Lamports -= c.Lamports
	to.Lamports += c.Lamports
	to.Data = make([]byte, c.Space)
	to.Owner = c.Owner
	return nil
}
