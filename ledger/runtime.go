// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/crypto/ed25519"
	"github.com/ava-labs/addressvm/state"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Program is the entrypoint of an on-ledger program. [accounts] are in the
// order of the instruction's account metas.
type Program interface {
	Execute(ctx context.Context, programID codec.Address, accounts []*AccountInfo, data []byte) error
}

// Invoker lets a running program call another program with a subset of
// the handles it was given.
type Invoker interface {
	Invoke(ctx context.Context, ix *Instruction, accounts []*AccountInfo) error
}

var _ Invoker = (*Runtime)(nil)

// Runtime executes transactions against ledger state. It is the simulated
// host of every registered program.
type Runtime struct {
	log      logging.Logger
	tracer   oteltrace.Tracer
	programs map[codec.Address]Program
}

func NewRuntime(log logging.Logger, tracer oteltrace.Tracer) *Runtime {
	return &Runtime{
		log:    log,
		tracer: tracer,
		programs: map[codec.Address]Program{
			SystemProgramID: systemProgram{},
		},
	}
}

// Register makes [p] callable at [programID].
func (r *Runtime) Register(programID codec.Address, p Program) error {
	if _, ok := r.programs[programID]; ok {
		return fmt.Errorf("%w: %s", ErrProgramAlreadyRegistered, programID)
	}
	r.programs[programID] = p
	return nil
}

// Invoke runs [ix] on copies of the matching handles in [accounts]. The
// copies are written back only if the callee succeeds and its changes pass
// verification, so a failed invocation has no effect on [accounts].
func (r *Runtime) Invoke(ctx context.Context, ix *Instruction, accounts []*AccountInfo) error {
	ctx, span := r.tracer.Start(ctx, "Runtime.Invoke")
	defer span.End()
	span.SetAttributes(attribute.Stringer("program", ix.ProgramID))

	program, ok := r.programs[ix.ProgramID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedProgramID, ix.ProgramID)
	}
	if findAccount(accounts, ix.ProgramID) == nil {
		return fmt.Errorf("%w: program %s", ErrMissingAccount, ix.ProgramID)
	}

	var (
		callerHandles = make([]*AccountInfo, len(ix.Accounts))
		calleeHandles = make([]*AccountInfo, len(ix.Accounts))
		copies        = make(map[codec.Address]*AccountInfo, len(ix.Accounts))
	)
	for i, meta := range ix.Accounts {
		caller := findAccount(accounts, meta.PublicKey)
		if caller == nil {
			return fmt.Errorf("%w: %s", ErrMissingAccount, meta.PublicKey)
		}
		if meta.IsSigner && !caller.IsSigner {
			return fmt.Errorf("%w: %s signer", ErrPrivilegeEscalation, meta.PublicKey)
		}
		if meta.IsWritable && !caller.IsWritable {
			return fmt.Errorf("%w: %s writable", ErrPrivilegeEscalation, meta.PublicKey)
		}
		callee, ok := copies[meta.PublicKey]
		if !ok {
			// A calling program must own up to its changes before handing
			// the account on.
			if caller.pre != nil {
				if err := verifyAccount(caller.program, caller.pre, caller); err != nil {
					return err
				}
			}
			callee = caller.clone()
			callee.IsSigner = false
			callee.IsWritable = false
			callee.pre = caller.clone()
			callee.program = ix.ProgramID
			copies[meta.PublicKey] = callee
		}
		callee.IsSigner = callee.IsSigner || meta.IsSigner
		callee.IsWritable = callee.IsWritable || meta.IsWritable
		callerHandles[i] = caller
		calleeHandles[i] = callee
	}

	r.log.Debug("invoking program",
		zap.Stringer("program", ix.ProgramID),
		zap.Int("accounts", len(ix.Accounts)),
	)
	if err := program.Execute(ctx, ix.ProgramID, calleeHandles, ix.Data); err != nil {
		return err
	}
	if err := verifyChanges(ix.ProgramID, calleeHandles); err != nil {
		return err
	}
	for i, caller := range callerHandles {
		callee := calleeHandles[i]
		if caller.pre != nil && callee.pre != nil {
			// Credit the callee's changes to the caller's baseline so the
			// caller is only held to what it did itself.
			caller.pre.Lamports = caller.pre.Lamports + callee.Lamports - callee.pre.Lamports
			caller.pre.Owner = callee.Owner
			caller.pre.Data = bytes.Clone(callee.Data)
		}
		caller.restore(callee)
		// duplicates share one callee; fold its changes in once
		callee.pre = nil
	}
	return nil
}

// verifyChanges enforces the ownership rules of the ledger on the handles
// [programID] returned and checks that no lamports were created or burned.
func verifyChanges(programID codec.Address, handles []*AccountInfo) error {
	var (
		seen         = make(map[codec.Address]struct{}, len(handles))
		preLamports  uint64
		postLamports uint64
	)
	for _, post := range handles {
		if _, ok := seen[post.Key]; ok {
			continue
		}
		seen[post.Key] = struct{}{}
		if err := verifyAccount(programID, post.pre, post); err != nil {
			return err
		}
		preLamports += post.pre.Lamports
		postLamports += post.Lamports
	}
	if preLamports != postLamports {
		return ErrUnbalancedInstruction
	}
	return nil
}

func verifyAccount(programID codec.Address, pre *AccountInfo, post *AccountInfo) error {
	dataChanged := !bytes.Equal(pre.Data, post.Data)
	changed := dataChanged || pre.Lamports != post.Lamports || pre.Owner != post.Owner
	switch {
	case changed && !post.IsWritable:
		return fmt.Errorf("%w: %s", ErrReadonlyDataModified, post.Key)
	case pre.Owner != post.Owner && pre.Owner != programID:
		return fmt.Errorf("%w: %s", ErrModifiedProgramID, post.Key)
	case dataChanged && pre.Owner != programID:
		return fmt.Errorf("%w: %s", ErrExternalAccountDataModified, post.Key)
	case post.Lamports < pre.Lamports && pre.Owner != programID:
		return fmt.Errorf("%w: %s", ErrExternalLamportSpend, post.Key)
	default:
		return nil
	}
}

func findAccount(accounts []*AccountInfo, key codec.Address) *AccountInfo {
	for _, a := range accounts {
		if a.Key == key {
			return a
		}
	}
	return nil
}

// Result reports the outcome of one transaction.
type Result struct {
	ID      ids.ID   `json:"id"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Logs    []string `json:"logs"`
}

// Execute runs every instruction of [tx] against [mu]. Account changes are
// written to [mu] only when all instructions succeed. The returned result is
// always populated; the error is the first instruction failure.
func (r *Runtime) Execute(ctx context.Context, mu state.Mutable, tx *Transaction) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.Execute")
	defer span.End()

	result := &Result{}
	ctx, pl := withProgramLog(ctx, r.log)
	defer func() {
		result.Logs = pl.lines
	}()

	id, err := tx.ID()
	if err != nil {
		return r.fail(result, err)
	}
	result.ID = id
	span.SetAttributes(attribute.Stringer("txID", id))

	if err := r.verify(tx); err != nil {
		return r.fail(result, err)
	}
	accounts, err := r.loadAccounts(ctx, mu, tx)
	if err != nil {
		return r.fail(result, err)
	}

	for _, ix := range tx.Instructions {
		pl.add("Program %s invoke", ix.ProgramID)
		if err := r.Invoke(ctx, ix, accounts); err != nil {
			pl.add("Program %s failed: %s", ix.ProgramID, err)
			return r.fail(result, err)
		}
		pl.add("Program %s success", ix.ProgramID)
	}

	for _, a := range accounts {
		if !a.IsWritable {
			continue
		}
		if err := SetAccount(ctx, mu, a.Key, a.Account()); err != nil {
			return r.fail(result, err)
		}
	}
	result.Success = true
	r.log.Debug("executed transaction",
		zap.Stringer("txID", id),
		zap.Int("instructions", len(tx.Instructions)),
	)
	return result, nil
}

func (r *Runtime) fail(result *Result, err error) (*Result, error) {
	result.Error = err.Error()
	r.log.Debug("transaction failed",
		zap.Stringer("txID", result.ID),
		zap.Error(err),
	)
	return result, err
}

// verify checks the transaction signatures and that every account an
// instruction expects to sign did.
func (r *Runtime) verify(tx *Transaction) error {
	if len(tx.Instructions) == 0 {
		return ErrEmptyTransaction
	}
	digest, err := tx.Digest()
	if err != nil {
		return err
	}
	if err := ed25519.VerifyAll(digest, tx.Signers, tx.Signatures); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	for _, ix := range tx.Instructions {
		for _, m := range ix.Accounts {
			if m.IsSigner && !containsAddress(tx.Signers, m.PublicKey) {
				return fmt.Errorf("%w: %s", ErrMissingRequiredSignature, m.PublicKey)
			}
		}
	}
	return nil
}

// loadAccounts returns one handle per distinct account referenced by [tx].
// Program accounts are synthesized as executable and are never writable.
func (r *Runtime) loadAccounts(ctx context.Context, im state.Immutable, tx *Transaction) ([]*AccountInfo, error) {
	var (
		accounts []*AccountInfo
		index    = make(map[codec.Address]*AccountInfo)
	)
	load := func(key codec.Address) (*AccountInfo, error) {
		if a, ok := index[key]; ok {
			return a, nil
		}
		var a *AccountInfo
		if _, ok := r.programs[key]; ok {
			a = &AccountInfo{Key: key, Owner: NativeLoaderID, Executable: true}
		} else {
			stored, err := GetAccount(ctx, im, key)
			if err != nil {
				return nil, err
			}
			a = NewAccountInfo(key, false, false, stored)
		}
		a.IsSigner = containsAddress(tx.Signers, key)
		index[key] = a
		accounts = append(accounts, a)
		return a, nil
	}

	for _, ix := range tx.Instructions {
		if _, err := load(ix.ProgramID); err != nil {
			return nil, err
		}
		for _, m := range ix.Accounts {
			a, err := load(m.PublicKey)
			if err != nil {
				return nil, err
			}
			if m.IsWritable && !a.Executable {
				a.IsWritable = true
			}
		}
	}
	return accounts, nil
}

func containsAddress(addrs []codec.Address, addr codec.Address) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}
