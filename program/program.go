// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package program implements the address program: a single instruction that
// creates a rent-exempt account holding one [record.AddressInfo].
package program

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/record"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ ledger.Program = (*Program)(nil)

type Program struct {
	log     logging.Logger
	tracer  oteltrace.Tracer
	rent    ledger.RentCalculator
	invoker ledger.Invoker
	metrics *metrics
}

// New returns the address program. [rent] answers the rent-exempt minimum
// for the new account and [invoker] reaches the system program.
func New(
	log logging.Logger,
	tracer oteltrace.Tracer,
	rent ledger.RentCalculator,
	invoker ledger.Invoker,
	registerer prometheus.Registerer,
) (*Program, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Program{
		log:     log,
		tracer:  tracer,
		rent:    rent,
		invoker: invoker,
		metrics: m,
	}, nil
}

// Execute decodes [data] as an address record and creates its account. A
// payload that does not decode fails before any account is touched.
func (p *Program) Execute(
	ctx context.Context,
	programID codec.Address,
	accounts []*ledger.AccountInfo,
	data []byte,
) error {
	ctx, span := p.tracer.Start(ctx, "Program.Execute")
	defer span.End()

	reason, err := p.execute(ctx, programID, accounts, data)
	p.metrics.observe(reason, err)
	return err
}

func (p *Program) execute(
	ctx context.Context,
	programID codec.Address,
	accounts []*ledger.AccountInfo,
	data []byte,
) (string, error) {
	ledger.Msg(ctx, "Creating Address")

	info, err := record.Unmarshal(data)
	if err != nil {
		ledger.Msg(ctx, "Failed to deserialize instruction data: %s", err)
		return reasonInvalidInstructionData, fmt.Errorf("%w: %w", ledger.ErrInvalidInstructionData, err)
	}
	return p.createAddress(ctx, programID, accounts, info)
}

// createAccounts names the positional accounts of the create instruction.
type createAccounts struct {
	payer   *ledger.AccountInfo
	address *ledger.AccountInfo
	system  *ledger.AccountInfo
}

// parseAccounts reads [payer, address, system program] from the front of
// [accounts]. Extra accounts are ignored.
func parseAccounts(accounts []*ledger.AccountInfo) (*createAccounts, error) {
	if len(accounts) < 3 {
		return nil, fmt.Errorf("%w: expected 3, got %d", ledger.ErrMissingAccount, len(accounts))
	}
	return &createAccounts{
		payer:   accounts[0],
		address: accounts[1],
		system:  accounts[2],
	}, nil
}

// CreateAddress funds and allocates the address account through the system
// program and writes the canonical encoding of [info] into it. The encoding
// is computed once, so the allocated span and the written payload can not
// disagree.
func (p *Program) CreateAddress(
	ctx context.Context,
	programID codec.Address,
	accounts []*ledger.AccountInfo,
	info *record.AddressInfo,
) error {
	_, err := p.createAddress(ctx, programID, accounts, info)
	return err
}

// createAddress returns the failure reason label alongside any error, so
// errors passed through from the system program are never relabeled.
func (p *Program) createAddress(
	ctx context.Context,
	programID codec.Address,
	accounts []*ledger.AccountInfo,
	info *record.AddressInfo,
) (string, error) {
	accts, err := parseAccounts(accounts)
	if err != nil {
		return reasonMissingAccount, err
	}

	payload, err := info.Marshal()
	if err != nil {
		return reasonInternal, err
	}
	span := uint64(len(payload))
	lamports := p.rent.MinimumBalance(span)
	oteltrace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("span", int64(span)),
		attribute.Int64("lamports", int64(lamports)),
	)

	ledger.Msg(ctx, "Payer account is signer: %t", accts.payer.IsSigner)
	ledger.Msg(ctx, "Address info account is writable: %t", accts.address.IsWritable)
	ledger.Msg(ctx, "Payer account is writable: %t", accts.payer.IsWritable)

	if !accts.payer.IsSigner {
		return reasonMissingSignature, fmt.Errorf("%w: payer %s", ledger.ErrMissingRequiredSignature, accts.payer.Key)
	}
	if !accts.address.IsWritable || !accts.payer.IsWritable {
		return reasonInvalidAccountData, ledger.ErrInvalidAccountData
	}
	if accts.system.Key != ledger.SystemProgramID {
		return reasonIncorrectProgramID, fmt.Errorf("%w: %s is not the system program", ledger.ErrIncorrectProgramID, accts.system.Key)
	}

	ledger.Msg(ctx, "Creating account")
	ix := ledger.NewCreateAccountInstruction(
		accts.payer.Key,
		accts.address.Key,
		lamports,
		span,
		programID,
	)
	if err := p.invoker.Invoke(ctx, ix, []*ledger.AccountInfo{accts.payer, accts.address, accts.system}); err != nil {
		return reasonInvoke, err
	}

	if len(accts.address.Data) < len(payload) {
		return reasonInternal, fmt.Errorf("%w: have %d, need %d", ledger.ErrAccountDataTooSmall, len(accts.address.Data), len(payload))
	}
	copy(accts.address.Data, payload)

	ledger.Msg(ctx, "Address info created successfully")
	p.log.Info("created address account",
		zap.Stringer("address", accts.address.Key),
		zap.Stringer("payer", accts.payer.Key),
		zap.Uint64("span", span),
		zap.Uint64("lamports", lamports),
	)
	return "", nil
}
