// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/consts"
	"github.com/ava-labs/addressvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (accounts)
//   -> [address] => lamports|owner|executable|data
// 0x1/ (named keys, simulator only)
//   -> [name] => private key

const (
	accountPrefix byte = 0x0
	keyPrefix     byte = 0x1
)

// [accountPrefix] + [address]
func AccountKey(addr codec.Address) []byte {
	k := make([]byte, consts.ByteLen+codec.AddressLen)
	k[0] = accountPrefix
	copy(k[1:], addr[:])
	return k
}

// [keyPrefix] + [name]
func NamedKeyKey(name string) []byte {
	k := make([]byte, consts.ByteLen+len(name))
	k[0] = keyPrefix
	copy(k[1:], name)
	return k
}

// GetAccount returns the account stored at [addr]. Accounts that were never
// created come back empty and owned by the system program.
func GetAccount(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (*Account, error) {
	v, err := im.GetValue(ctx, AccountKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return &Account{Owner: SystemProgramID}, nil
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalAccount(v)
}

// SetAccount stores [a] at [addr], removing the entry when the account no
// longer exists.
func SetAccount(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	a *Account,
) error {
	k := AccountKey(addr)
	if !a.Exists() {
		return mu.Remove(ctx, k)
	}
	v, err := a.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, k, v)
}

// AddLamports credits [amount] to [addr] outside of any program. It is used
// for genesis funding.
func AddLamports(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	amount uint64,
) (uint64, error) {
	a, err := GetAccount(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add64(a.Lamports, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"could not add lamports (bal=%d, addr=%s, amount=%d): %w",
			a.Lamports,
			addr,
			amount,
			err,
		)
	}
	a.Lamports = nbal
	return nbal, SetAccount(ctx, mu, addr, a)
}
