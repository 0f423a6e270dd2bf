// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/addressvm/codec"
)

func TestSystemProgramID(t *testing.T) {
	require := require.New(t)

	require.Equal(codec.EmptyAddress, SystemProgramID)
	require.Equal("11111111111111111111111111111111", SystemProgramID.String())
}

func TestCreateAccountEncoding(t *testing.T) {
	require := require.New(t)

	owner := codec.NewUniqueAddress()
	c := &CreateAccount{Lamports: 1_204_080, Space: 45, Owner: owner}
	b := c.Marshal()
	require.Len(b, 52)
	require.Equal([]byte{0, 0, 0, 0}, b[:4])
	require.Equal([]byte{0x70, 0x5f, 0x12, 0, 0, 0, 0, 0}, b[4:12])
	require.Equal([]byte{45, 0, 0, 0, 0, 0, 0, 0}, b[12:20])
	require.Equal(owner[:], b[20:])

	parsed, err := UnmarshalCreateAccount(b)
	require.NoError(err)
	require.Equal(c, parsed)

	_, err = UnmarshalCreateAccount(b[:51])
	require.ErrorIs(err, ErrInvalidInstructionData)
	b[0] = 1
	_, err = UnmarshalCreateAccount(b)
	require.ErrorIs(err, ErrInvalidInstructionData)
}

func TestSystemProgramCreateAccount(t *testing.T) {
	owner := codec.NewUniqueAddress()

	tests := []struct {
		name     string
		modify   func(from, to *AccountInfo) []*AccountInfo
		lamports uint64
		space    uint64
		err      error
	}{
		{
			name:     "success",
			lamports: 1_000,
			space:    45,
		},
		{
			name:     "missing account",
			modify:   func(from, _ *AccountInfo) []*AccountInfo { return []*AccountInfo{from} },
			lamports: 1_000,
			err:      ErrMissingAccount,
		},
		{
			name: "funder not signer",
			modify: func(from, to *AccountInfo) []*AccountInfo {
				from.IsSigner = false
				return []*AccountInfo{from, to}
			},
			lamports: 1_000,
			err:      ErrMissingRequiredSignature,
		},
		{
			name: "new account not signer",
			modify: func(from, to *AccountInfo) []*AccountInfo {
				to.IsSigner = false
				return []*AccountInfo{from, to}
			},
			lamports: 1_000,
			err:      ErrMissingRequiredSignature,
		},
		{
			name: "funded account in use",
			modify: func(from, to *AccountInfo) []*AccountInfo {
				to.Lamports = 1
				return []*AccountInfo{from, to}
			},
			lamports: 1_000,
			err:      ErrAccountAlreadyInUse,
		},
		{
			name: "assigned account in use",
			modify: func(from, to *AccountInfo) []*AccountInfo {
				to.Owner = owner
				return []*AccountInfo{from, to}
			},
			lamports: 1_000,
			err:      ErrAccountAlreadyInUse,
		},
		{
			name:     "space too large",
			lamports: 1_000,
			space:    MaxPermittedDataLength + 1,
			err:      ErrInvalidAccountDataLength,
		},
		{
			name:     "insufficient funds",
			lamports: 1_000_001,
			err:      ErrInsufficientFunds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			from := NewAccountInfo(codec.NewUniqueAddress(), true, true, &Account{Lamports: 1_000_000, Owner: SystemProgramID})
			to := NewAccountInfo(codec.NewUniqueAddress(), true, true, &Account{Owner: SystemProgramID})
			accounts := []*AccountInfo{from, to}
			if tt.modify != nil {
				accounts = tt.modify(from, to)
			}
			fromBefore, toBefore := *from, *to

			data := (&CreateAccount{Lamports: tt.lamports, Space: tt.space, Owner: owner}).Marshal()
			err := systemProgram{}.Execute(context.Background(), SystemProgramID, accounts, data)
			require.ErrorIs(err, tt.err)
			if tt.err != nil {
				require.Equal(fromBefore, *from)
				require.Equal(toBefore, *to)
				return
			}
			require.Equal(uint64(1_000_000)-tt.lamports, from.Lamports)
			require.Equal(tt.lamports, to.Lamports)
			require.Equal(make([]byte, tt.space), to.Data)
			require.Equal(owner, to.Owner)
		})
	}
}
