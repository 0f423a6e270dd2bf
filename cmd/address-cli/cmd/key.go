// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/addressvm/crypto/ed25519"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/state"
)

func newKeyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage named keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [name]",
			Short: "Create a named ed25519 key",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var name string
				if len(args) == 1 {
					name = args[0]
				} else {
					var err error
					name, err = promptName("key name")
					if err != nil {
						return err
					}
				}
				mu := c.mutable()
				priv, err := keyCreateFunc(cmd.Context(), mu, name)
				if err != nil {
					return err
				}
				if err := c.commit(cmd.Context(), mu); err != nil {
					return err
				}
				c.log.Debug("key create successful", zap.String("name", name))
				fmt.Fprintf(cmd.OutOrStdout(), "created key %s: %s\n", name, priv.Address())
				return nil
			},
		},
		&cobra.Command{
			Use:   "airdrop <name|address> <lamports>",
			Short: "Credit lamports to an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := strconv.ParseUint(args[1], 10, 64)
				if err != nil {
					return err
				}
				mu := c.mutable()
				bal, err := airdropFunc(cmd.Context(), mu, args[0], amount)
				if err != nil {
					return err
				}
				if err := c.commit(cmd.Context(), mu); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "balance of %s: %d\n", args[0], bal)
				return nil
			},
		},
	)
	return cmd
}

func keyCreateFunc(ctx context.Context, mu state.Mutable, name string) (ed25519.PrivateKey, error) {
	_, ok, err := getKey(ctx, mu, name)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if ok {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrDuplicateKeyName, name)
	}
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	return priv, setKey(ctx, mu, name, priv)
}

func airdropFunc(ctx context.Context, mu state.Mutable, to string, amount uint64) (uint64, error) {
	addr, err := resolveAddress(ctx, mu, to)
	if err != nil {
		return 0, err
	}
	return ledger.AddLamports(ctx, mu, addr, amount)
}
