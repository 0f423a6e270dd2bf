// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/crypto/ed25519"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/record"
	"github.com/ava-labs/addressvm/state"
)

type testEnv struct {
	programID codec.Address
	runtime   *ledger.Runtime
	program   *Program
	db        *memdb.Database
	mu        *state.SimpleMutable
	payer     ed25519.PrivateKey
	target    ed25519.PrivateKey
}

func newTestEnv(t *testing.T, payerBalance uint64) *testEnv {
	require := require.New(t)

	var (
		tracer = noop.NewTracerProvider().Tracer("")
		r      = ledger.NewRuntime(logging.NoLog{}, tracer)
		db     = memdb.New()
		env    = &testEnv{
			programID: codec.NewUniqueAddress(),
			runtime:   r,
			db:        db,
			mu:        state.NewSimpleMutable(state.NewDatabaseReader(db)),
		}
		err error
	)
	env.program, err = New(logging.NoLog{}, tracer, ledger.DefaultRent(), r, prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(r.Register(env.programID, env.program))

	env.payer, err = ed25519.GeneratePrivateKey()
	require.NoError(err)
	env.target, err = ed25519.GeneratePrivateKey()
	require.NoError(err)
	if payerBalance > 0 {
		_, err = ledger.AddLamports(context.Background(), env.mu, env.payer.Address(), payerBalance)
		require.NoError(err)
	}
	return env
}

func (e *testEnv) account(t *testing.T, addr codec.Address) *ledger.Account {
	a, err := ledger.GetAccount(context.Background(), e.mu, addr)
	require.NoError(t, err)
	return a
}

func (e *testEnv) execute(t *testing.T, ix *ledger.Instruction, signers ...ed25519.PrivateKey) (*ledger.Result, error) {
	tx := ledger.NewTransaction(ix)
	require.NoError(t, tx.Sign(signers...))
	return e.runtime.Execute(context.Background(), e.mu, tx)
}

func TestCreateJohnDoe(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	env := newTestEnv(t, 10_000_000)
	ix, err := NewCreateAddressInstruction(env.programID, env.payer.Address(), env.target.Address(), johnDoe())
	require.NoError(err)

	result, err := env.execute(t, ix, env.payer, env.target)
	require.NoError(err)
	require.True(result.Success)
	require.Equal([]string{
		"Program " + env.programID.String() + " invoke",
		"Program log: Creating Address",
		"Program log: Payer account is signer: true",
		"Program log: Address info account is writable: true",
		"Program log: Payer account is writable: true",
		"Program log: Creating account",
		"Program log: Address info created successfully",
		"Program " + env.programID.String() + " success",
	}, result.Logs)

	// state survives the commit to the database
	require.NoError(env.mu.Commit(ctx, env.db))
	reader := state.NewDatabaseReader(env.db)

	created, err := ledger.GetAccount(ctx, reader, env.target.Address())
	require.NoError(err)
	require.Equal(env.programID, created.Owner)
	require.Len(created.Data, johnDoeSpan)
	require.GreaterOrEqual(created.Lamports, ledger.DefaultRent().MinimumBalance(uint64(len(created.Data))))
	require.Equal(uint64(johnDoeRent), created.Lamports)

	stored, err := record.Unmarshal(created.Data)
	require.NoError(err)
	require.Equal(johnDoe(), stored)
	require.Equal("John Doe", stored.String())

	custom, n, err := record.FromLEBytes(created.Data)
	require.NoError(err)
	require.Equal(johnDoeSpan, n)
	require.Equal(stored, custom)

	payer, err := ledger.GetAccount(ctx, reader, env.payer.Address())
	require.NoError(err)
	require.Equal(uint64(10_000_000-johnDoeRent), payer.Lamports)

	require.Equal(float64(1), testutil.ToFloat64(env.program.metrics.created))
}

func TestCreateAddressFailures(t *testing.T) {
	tests := []struct {
		name    string
		balance uint64
		setup   func(*testing.T, *testEnv)
		ix      func(*testEnv) *ledger.Instruction
		signers func(*testEnv) []ed25519.PrivateKey
		err     error
	}{
		{
			name:    "payer not signer",
			balance: 10_000_000,
			ix: func(e *testEnv) *ledger.Instruction {
				ix := mustInstruction(e)
				ix.Accounts[0].IsSigner = false
				return ix
			},
			signers: func(e *testEnv) []ed25519.PrivateKey { return []ed25519.PrivateKey{e.target} },
			err:     ledger.ErrMissingRequiredSignature,
		},
		{
			name:    "wrong system program",
			balance: 10_000_000,
			ix: func(e *testEnv) *ledger.Instruction {
				ix := mustInstruction(e)
				ix.Accounts[2].PublicKey = codec.NewUniqueAddress()
				return ix
			},
			err: ledger.ErrIncorrectProgramID,
		},
		{
			name:    "missing system account",
			balance: 10_000_000,
			ix: func(e *testEnv) *ledger.Instruction {
				ix := mustInstruction(e)
				ix.Accounts = ix.Accounts[:2]
				return ix
			},
			err: ledger.ErrMissingAccount,
		},
		{
			name:    "address account did not sign",
			balance: 10_000_000,
			ix: func(e *testEnv) *ledger.Instruction {
				ix := mustInstruction(e)
				ix.Accounts[1].IsSigner = false
				return ix
			},
			signers: func(e *testEnv) []ed25519.PrivateKey { return []ed25519.PrivateKey{e.payer} },
			err:     ledger.ErrPrivilegeEscalation,
		},
		{
			name:    "address account read-only",
			balance: 10_000_000,
			ix: func(e *testEnv) *ledger.Instruction {
				ix := mustInstruction(e)
				ix.Accounts[1].IsWritable = false
				return ix
			},
			err: ledger.ErrInvalidAccountData,
		},
		{
			name:    "malformed record",
			balance: 10_000_000,
			ix: func(e *testEnv) *ledger.Instruction {
				ix := mustInstruction(e)
				ix.Data = ix.Data[:10]
				return ix
			},
			err: ledger.ErrInvalidInstructionData,
		},
		{
			name:    "insufficient funds",
			balance: johnDoeRent - 1,
			ix:      mustInstruction,
			err:     ledger.ErrInsufficientFunds,
		},
		{
			name:    "address account already in use",
			balance: 10_000_000,
			setup: func(t *testing.T, e *testEnv) {
				_, err := ledger.AddLamports(context.Background(), e.mu, e.target.Address(), 1)
				require.NoError(t, err)
			},
			ix:  mustInstruction,
			err: ledger.ErrAccountAlreadyInUse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t, tt.balance)
			if tt.setup != nil {
				tt.setup(t, env)
			}
			before := env.account(t, env.target.Address())

			signers := []ed25519.PrivateKey{env.payer, env.target}
			if tt.signers != nil {
				signers = tt.signers(env)
			}
			result, err := env.execute(t, tt.ix(env), signers...)
			require.ErrorIs(err, tt.err)
			require.False(result.Success)

			require.Equal(before, env.account(t, env.target.Address()))
			require.Equal(tt.balance, env.account(t, env.payer.Address()).Lamports)
			require.Zero(testutil.ToFloat64(env.program.metrics.created))
		})
	}
}

func TestCreateAddressTwice(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, 10_000_000)
	_, err := env.execute(t, mustInstruction(env), env.payer, env.target)
	require.NoError(err)

	other := record.New("Jane Doe", 7, "1 Queen Street", "Wellington")
	ix, err := NewCreateAddressInstruction(env.programID, env.payer.Address(), env.target.Address(), other)
	require.NoError(err)
	_, err = env.execute(t, ix, env.payer, env.target)
	require.ErrorIs(err, ledger.ErrAccountAlreadyInUse)

	stored, err := record.Unmarshal(env.account(t, env.target.Address()).Data)
	require.NoError(err)
	require.Equal(johnDoe(), stored)
}

func mustInstruction(e *testEnv) *ledger.Instruction {
	ix, err := NewCreateAddressInstruction(e.programID, e.payer.Address(), e.target.Address(), johnDoe())
	if err != nil {
		panic(err)
	}
	return ix
}
