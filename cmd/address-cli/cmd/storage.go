// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/crypto/ed25519"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/state"
)

func setKey(ctx context.Context, mu state.Mutable, name string, priv ed25519.PrivateKey) error {
	return mu.Insert(ctx, ledger.NamedKeyKey(name), priv[:])
}

func getKey(ctx context.Context, im state.Immutable, name string) (ed25519.PrivateKey, bool, error) {
	v, err := im.GetValue(ctx, ledger.NamedKeyKey(name))
	if errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPrivateKey, false, nil
	}
	if err != nil {
		return ed25519.EmptyPrivateKey, false, err
	}
	if len(v) != ed25519.PrivateKeyLen {
		return ed25519.EmptyPrivateKey, false, fmt.Errorf("%w: stored key %q", ed25519.ErrInvalidPrivateKey, name)
	}
	return ed25519.PrivateKey(v), true, nil
}

func mustGetKey(ctx context.Context, im state.Immutable, name string) (ed25519.PrivateKey, error) {
	priv, ok, err := getKey(ctx, im, name)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if !ok {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, name)
	}
	return priv, nil
}

// resolveAddress accepts either the name of a stored key or a base58
// address.
func resolveAddress(ctx context.Context, im state.Immutable, s string) (codec.Address, error) {
	priv, ok, err := getKey(ctx, im, s)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if ok {
		return priv.Address(), nil
	}
	addr, err := codec.StringToAddress(s)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %s is neither a key name nor an address", ErrNamedKeyNotFound, s)
	}
	return addr, nil
}
