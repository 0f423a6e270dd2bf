// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/program"
	"github.com/ava-labs/addressvm/record"
	"github.com/ava-labs/addressvm/state"
)

type Endpoint string

const (
	// Create a named key. An existing key of the same name is reused.
	EndpointKey Endpoint = "key"
	// Credit lamports to a named key or address.
	EndpointAirdrop Endpoint = "airdrop"
	// Create the address account of [Step.Key] paid for by [Step.Payer].
	EndpointCreateAddress Endpoint = "create_address"
	// Read the record held by the account of [Step.Key].
	EndpointReadAddress Endpoint = "read_address"
)

type Plan struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Steps       []Step `yaml:"steps" json:"steps"`
}

type Step struct {
	Description string              `yaml:"description" json:"description"`
	Endpoint    Endpoint            `yaml:"endpoint" json:"endpoint"`
	Key         string              `yaml:"key" json:"key"`
	Payer       string              `yaml:"payer,omitempty" json:"payer,omitempty"`
	Lamports    uint64              `yaml:"lamports,omitempty" json:"lamports,omitempty"`
	Record      *record.AddressInfo `yaml:"record,omitempty" json:"record,omitempty"`
}

type Response struct {
	// The index of the step that generated this response.
	ID        int    `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Result    Result `json:"result"`
	Error     string `json:"error,omitempty"`
}

type Result struct {
	TxID    string              `json:"txID,omitempty"`
	Address string              `json:"address,omitempty"`
	Balance uint64              `json:"balance,omitempty"`
	Record  *record.AddressInfo `json:"record,omitempty"`
	Logs    []string            `json:"logs,omitempty"`
	Msg     string              `json:"msg,omitempty"`
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	return &p, nil
}

func readPlan(path string, stdin io.Reader) (*Plan, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalPlan(b)
}

func newRunCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run <plan.yaml|->",
		Short: "Run a simulation plan, printing one JSON response per step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := plan.Verify(); err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), plan, cmd.OutOrStdout())
		},
	}
}

func (p *Plan) Verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i := range p.Steps {
		if err := p.Steps[i].verify(); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (s *Step) verify() error {
	if s.Key == "" {
		return fmt.Errorf("%w: key", ErrMissingParam)
	}
	switch s.Endpoint {
	case EndpointKey, EndpointReadAddress:
		return nil
	case EndpointAirdrop:
		if s.Lamports == 0 {
			return fmt.Errorf("%w: lamports", ErrMissingParam)
		}
		return nil
	case EndpointCreateAddress:
		if s.Payer == "" {
			return fmt.Errorf("%w: payer", ErrMissingParam)
		}
		if s.Record == nil {
			return fmt.Errorf("%w: record", ErrMissingParam)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, s.Endpoint)
	}
}

// runPlan executes the steps in order. A failing step is reported in its
// response and leaves no trace in the database; later steps still run.
func (c *cli) runPlan(ctx context.Context, plan *Plan, out io.Writer) error {
	c.log.Info("simulation",
		zap.String("plan", plan.Name),
		zap.Int("steps", len(plan.Steps)),
	)
	enc := json.NewEncoder(out)
	for i, step := range plan.Steps {
		c.log.Info("simulation",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("endpoint", string(step.Endpoint)),
		)

		resp := &Response{ID: i}
		mu := c.mutable()
		err := c.runStep(ctx, mu, &step, &resp.Result)
		if err == nil {
			err = c.commit(ctx, mu)
		}
		if err != nil {
			resp.Error = err.Error()
		}
		resp.Timestamp = time.Now().Unix()
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) runStep(ctx context.Context, mu *state.SimpleMutable, step *Step, result *Result) error {
	switch step.Endpoint {
	case EndpointKey:
		priv, err := keyCreateFunc(ctx, mu, step.Key)
		if errors.Is(err, ErrDuplicateKeyName) {
			c.log.Debug("key already exists", zap.String("name", step.Key))
			priv, err = mustGetKey(ctx, mu, step.Key)
		}
		if err != nil {
			return err
		}
		result.Address = priv.Address().String()
		result.Msg = fmt.Sprintf("created named key %s", step.Key)
		return nil
	case EndpointAirdrop:
		bal, err := airdropFunc(ctx, mu, step.Key, step.Lamports)
		if err != nil {
			return err
		}
		result.Balance = bal
		return nil
	case EndpointCreateAddress:
		return c.createAddressFunc(ctx, mu, step, result)
	case EndpointReadAddress:
		view, err := c.readAccount(ctx, mu, step.Key)
		if err != nil {
			return err
		}
		if view.Record == nil {
			return fmt.Errorf("%w: %s", ErrNotAddressRecord, view.Address)
		}
		result.Address = view.Address.String()
		result.Balance = view.Lamports
		result.Record = view.Record
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, step.Endpoint)
	}
}

func (c *cli) createAddressFunc(ctx context.Context, mu *state.SimpleMutable, step *Step, result *Result) error {
	payer, err := mustGetKey(ctx, mu, step.Payer)
	if err != nil {
		return err
	}
	target, err := mustGetKey(ctx, mu, step.Key)
	if err != nil {
		return err
	}
	ix, err := program.NewCreateAddressInstruction(
		c.cfg.GetProgramID(),
		payer.Address(),
		target.Address(),
		step.Record,
	)
	if err != nil {
		return err
	}
	tx := ledger.NewTransaction(ix)
	if err := tx.Sign(payer, target); err != nil {
		return err
	}
	res, err := c.runtime.Execute(ctx, mu, tx)
	result.TxID = res.ID.String()
	result.Logs = res.Logs
	result.Address = target.Address().String()
	if err != nil {
		return err
	}
	a, err := ledger.GetAccount(ctx, mu, target.Address())
	if err != nil {
		return err
	}
	result.Balance = a.Lamports
	return nil
}
