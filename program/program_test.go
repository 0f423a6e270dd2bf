// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/record"
)

const (
	johnDoeSpan = 45
	johnDoeRent = 1_204_080
)

func johnDoe() *record.AddressInfo {
	return record.New("John Doe", 123, "33 Mapleton Road", "Auckland")
}

func newTestProgram(t *testing.T, rent ledger.RentCalculator, invoker ledger.Invoker) *Program {
	p, err := New(
		logging.NoLog{},
		noop.NewTracerProvider().Tracer(""),
		rent,
		invoker,
		prometheus.NewRegistry(),
	)
	require.NoError(t, err)
	return p
}

type testHandles struct {
	payer   *ledger.AccountInfo
	address *ledger.AccountInfo
	system  *ledger.AccountInfo
}

func newTestHandles() *testHandles {
	return &testHandles{
		payer: ledger.NewAccountInfo(codec.NewUniqueAddress(), true, true, &ledger.Account{
			Lamports: 10_000_000,
			Owner:    ledger.SystemProgramID,
		}),
		address: ledger.NewAccountInfo(codec.NewUniqueAddress(), true, true, &ledger.Account{
			Owner: ledger.SystemProgramID,
		}),
		system: ledger.NewAccountInfo(ledger.SystemProgramID, false, false, &ledger.Account{
			Owner:      ledger.NativeLoaderID,
			Executable: true,
		}),
	}
}

func (h *testHandles) list() []*ledger.AccountInfo {
	return []*ledger.AccountInfo{h.payer, h.address, h.system}
}

// allocate mimics a successful CreateAccount on the handles it is given.
func allocate(_ context.Context, ix *ledger.Instruction, accounts []*ledger.AccountInfo) error {
	c, err := ledger.UnmarshalCreateAccount(ix.Data)
	if err != nil {
		return err
	}
	accounts[0].Lamports -= c.Lamports
	accounts[1].Lamports += c.Lamports
	accounts[1].Data = make([]byte, c.Space)
	accounts[1].Owner = c.Owner
	return nil
}

func TestCreateAddress(t *testing.T) {
	programID := codec.NewUniqueAddress()

	tests := []struct {
		name     string
		modify   func(*testHandles) []*ledger.AccountInfo
		setup    func(*ledger.MockRentCalculator, *ledger.MockInvoker, *testHandles)
		err      error
		verbatim bool
		stored   bool
	}{
		{
			name: "success",
			setup: func(rent *ledger.MockRentCalculator, invoker *ledger.MockInvoker, h *testHandles) {
				rent.EXPECT().MinimumBalance(uint64(johnDoeSpan)).Return(uint64(johnDoeRent))
				invoker.EXPECT().Invoke(
					gomock.Any(),
					ledger.NewCreateAccountInstruction(h.payer.Key, h.address.Key, johnDoeRent, johnDoeSpan, programID),
					[]*ledger.AccountInfo{h.payer, h.address, h.system},
				).DoAndReturn(allocate)
			},
			stored: true,
		},
		{
			name: "extra accounts ignored",
			modify: func(h *testHandles) []*ledger.AccountInfo {
				extra := ledger.NewAccountInfo(codec.NewUniqueAddress(), false, false, &ledger.Account{})
				return append(h.list(), extra)
			},
			setup: func(rent *ledger.MockRentCalculator, invoker *ledger.MockInvoker, h *testHandles) {
				rent.EXPECT().MinimumBalance(uint64(johnDoeSpan)).Return(uint64(johnDoeRent))
				invoker.EXPECT().Invoke(
					gomock.Any(),
					gomock.Any(),
					[]*ledger.AccountInfo{h.payer, h.address, h.system},
				).DoAndReturn(allocate)
			},
			stored: true,
		},
		{
			name: "missing accounts",
			modify: func(h *testHandles) []*ledger.AccountInfo {
				return []*ledger.AccountInfo{h.payer, h.address}
			},
			err: ledger.ErrMissingAccount,
		},
		{
			name: "payer not signer",
			modify: func(h *testHandles) []*ledger.AccountInfo {
				h.payer.IsSigner = false
				return h.list()
			},
			setup: func(rent *ledger.MockRentCalculator, _ *ledger.MockInvoker, _ *testHandles) {
				rent.EXPECT().MinimumBalance(uint64(johnDoeSpan)).Return(uint64(johnDoeRent))
			},
			err: ledger.ErrMissingRequiredSignature,
		},
		{
			name: "address account read-only",
			modify: func(h *testHandles) []*ledger.AccountInfo {
				h.address.IsWritable = false
				return h.list()
			},
			setup: func(rent *ledger.MockRentCalculator, _ *ledger.MockInvoker, _ *testHandles) {
				rent.EXPECT().MinimumBalance(uint64(johnDoeSpan)).Return(uint64(johnDoeRent))
			},
			err: ledger.ErrInvalidAccountData,
		},
		{
			name: "payer read-only",
			modify: func(h *testHandles) []*ledger.AccountInfo {
				h.payer.IsWritable = false
				return h.list()
			},
			setup: func(rent *ledger.MockRentCalculator, _ *ledger.MockInvoker, _ *testHandles) {
				rent.EXPECT().MinimumBalance(uint64(johnDoeSpan)).Return(uint64(johnDoeRent))
			},
			err: ledger.ErrInvalidAccountData,
		},
		{
			name: "wrong system program",
			modify: func(h *testHandles) []*ledger.AccountInfo {
				h.system.Key = codec.NewUniqueAddress()
				return h.list()
			},
			setup: func(rent *ledger.MockRentCalculator, _ *ledger.MockInvoker, _ *testHandles) {
				rent.EXPECT().MinimumBalance(uint64(johnDoeSpan)).Return(uint64(johnDoeRent))
			},
			err: ledger.ErrIncorrectProgramID,
		},
		{
			name: "invoke error returned as is",
			setup: func(rent *ledger.MockRentCalculator, invoker *ledger.MockInvoker, _ *testHandles) {
				rent.EXPECT().MinimumBalance(uint64(johnDoeSpan)).Return(uint64(johnDoeRent))
				invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(ledger.ErrInsufficientFunds)
			},
			err:      ledger.ErrInsufficientFunds,
			verbatim: true,
		},
		{
			name: "allocation too small",
			setup: func(rent *ledger.MockRentCalculator, invoker *ledger.MockInvoker, _ *testHandles) {
				rent.EXPECT().MinimumBalance(uint64(johnDoeSpan)).Return(uint64(johnDoeRent))
				invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			err: ledger.ErrAccountDataTooSmall,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctrl := gomock.NewController(t)

			rent := ledger.NewMockRentCalculator(ctrl)
			invoker := ledger.NewMockInvoker(ctrl)
			h := newTestHandles()
			accounts := h.list()
			if tt.modify != nil {
				accounts = tt.modify(h)
			}
			if tt.setup != nil {
				tt.setup(rent, invoker, h)
			}

			p := newTestProgram(t, rent, invoker)
			err := p.CreateAddress(context.Background(), programID, accounts, johnDoe())
			if tt.verbatim {
				require.Equal(tt.err, err)
			}
			require.ErrorIs(err, tt.err)
			if !tt.stored {
				require.Empty(h.address.Data)
				require.Zero(h.address.Lamports)
				return
			}

			stored, err := record.Unmarshal(h.address.Data)
			require.NoError(err)
			require.Equal(johnDoe(), stored)
			require.Equal(uint64(johnDoeRent), h.address.Lamports)
			require.Equal(programID, h.address.Owner)
		})
	}
}

func TestExecuteInvalidInstructionData(t *testing.T) {
	ctrl := gomock.NewController(t)

	// no expectations: nothing may be called on a bad payload
	p := newTestProgram(t, ledger.NewMockRentCalculator(ctrl), ledger.NewMockInvoker(ctrl))
	h := newTestHandles()

	tests := map[string][]byte{
		"empty":          nil,
		"truncated":      {8, 0, 0, 0, 'J', 'o'},
		"invalid utf8":   {2, 0, 0, 0, 0xff, 0xfe, 1, 0, 0, 0, 0, 1, 0, 0, 0, 'a'},
		"trailing bytes": append(mustMarshal(t, johnDoe()), 0),
		"huge name len":  {0xff, 0xff, 0xff, 0xfe, 'J', 'o', 'h', 'n', 'x'},
		"huge city len":  {1, 0, 0, 0, 'a', 1, 1, 0, 0, 0, 'b', 0xff, 0xff, 0xff, 0xff},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			err := p.Execute(context.Background(), codec.NewUniqueAddress(), h.list(), data)
			require.ErrorIs(err, ledger.ErrInvalidInstructionData)
			require.ErrorIs(err, record.ErrDeserialization)
			require.Empty(h.address.Data)
		})
	}
	require.Equal(t, float64(len(tests)), testutil.ToFloat64(p.metrics.failed.WithLabelValues("invalid_instruction_data")))
}

func TestExecuteMetrics(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	rent := ledger.NewMockRentCalculator(ctrl)
	rent.EXPECT().MinimumBalance(gomock.Any()).Return(uint64(johnDoeRent)).Times(2)
	invoker := ledger.NewMockInvoker(ctrl)
	invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(allocate)
	invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(ledger.ErrAccountAlreadyInUse)
	p := newTestProgram(t, rent, invoker)

	data := mustMarshal(t, johnDoe())
	require.NoError(p.Execute(context.Background(), codec.NewUniqueAddress(), newTestHandles().list(), data))
	require.ErrorIs(
		p.Execute(context.Background(), codec.NewUniqueAddress(), newTestHandles().list(), data),
		ledger.ErrAccountAlreadyInUse,
	)

	require.Equal(float64(1), testutil.ToFloat64(p.metrics.created))
	require.Equal(float64(1), testutil.ToFloat64(p.metrics.failed.WithLabelValues("invoke")))
}

func TestExecuteMetricsSystemErrors(t *testing.T) {
	tests := map[string]struct {
		err    error
		unused string
	}{
		"missing signature": {err: ledger.ErrMissingRequiredSignature, unused: reasonMissingSignature},
		"missing account":   {err: ledger.ErrMissingAccount, unused: reasonMissingAccount},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctrl := gomock.NewController(t)

			rent := ledger.NewMockRentCalculator(ctrl)
			rent.EXPECT().MinimumBalance(gomock.Any()).Return(uint64(johnDoeRent))
			invoker := ledger.NewMockInvoker(ctrl)
			invoker.EXPECT().Invoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.err)
			p := newTestProgram(t, rent, invoker)

			err := p.Execute(context.Background(), codec.NewUniqueAddress(), newTestHandles().list(), mustMarshal(t, johnDoe()))
			require.ErrorIs(err, tt.err)

			require.Equal(float64(1), testutil.ToFloat64(p.metrics.failed.WithLabelValues(reasonInvoke)))
			require.Equal(float64(0), testutil.ToFloat64(p.metrics.failed.WithLabelValues(tt.unused)))
		})
	}
}

func TestMetricsRegisterTwice(t *testing.T) {
	require := require.New(t)

	r := prometheus.NewRegistry()
	_, err := newMetrics(r)
	require.NoError(err)
	_, err = newMetrics(r)
	var alreadyRegistered prometheus.AlreadyRegisteredError
	require.ErrorAs(err, &alreadyRegistered)
}

func TestNewCreateAddressInstruction(t *testing.T) {
	require := require.New(t)

	var (
		programID = codec.NewUniqueAddress()
		payer     = codec.NewUniqueAddress()
		address   = codec.NewUniqueAddress()
	)
	ix, err := NewCreateAddressInstruction(programID, payer, address, johnDoe())
	require.NoError(err)
	require.Equal(programID, ix.ProgramID)
	require.Equal([]ledger.AccountMeta{
		{PublicKey: payer, IsWritable: true, IsSigner: true},
		{PublicKey: address, IsWritable: true, IsSigner: true},
		{PublicKey: ledger.SystemProgramID},
	}, ix.Accounts)
	require.Equal(mustMarshal(t, johnDoe()), ix.Data)

	_, err = NewCreateAddressInstruction(codec.EmptyAddress, payer, address, johnDoe())
	require.ErrorIs(err, ErrMissingProgramID)
}

func mustMarshal(t *testing.T, info *record.AddressInfo) []byte {
	b, err := info.Marshal()
	require.NoError(t, err)
	return b
}
