// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/record"
	"github.com/ava-labs/addressvm/state"
)

type accountView struct {
	Address    codec.Address       `json:"address"`
	Lamports   uint64              `json:"lamports"`
	Owner      codec.Address       `json:"owner"`
	Executable bool                `json:"executable"`
	DataLen    int                 `json:"dataLen"`
	Record     *record.AddressInfo `json:"record,omitempty"`
}

func newAccountCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "account <name|address>",
		Short: "Show an account and the address record it holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.readAccount(cmd.Context(), c.mutable(), args[0])
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

// readAccount loads the account named by [s]. Accounts owned by the address
// program are decoded into their record.
func (c *cli) readAccount(ctx context.Context, im state.Immutable, s string) (*accountView, error) {
	addr, err := resolveAddress(ctx, im, s)
	if err != nil {
		return nil, err
	}
	a, err := ledger.GetAccount(ctx, im, addr)
	if err != nil {
		return nil, err
	}
	view := &accountView{
		Address:    addr,
		Lamports:   a.Lamports,
		Owner:      a.Owner,
		Executable: a.Executable,
		DataLen:    len(a.Data),
	}
	if a.Owner == c.cfg.GetProgramID() {
		view.Record, err = record.Unmarshal(a.Data)
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}
