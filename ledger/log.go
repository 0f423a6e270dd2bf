// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
)

type programLogKey struct{}

// programLog collects the log lines emitted by programs during one
// transaction.
type programLog struct {
	log   logging.Logger
	lines []string
}

func withProgramLog(ctx context.Context, log logging.Logger) (context.Context, *programLog) {
	pl := &programLog{log: log}
	return context.WithValue(ctx, programLogKey{}, pl), pl
}

// Msg appends a line to the transaction log. Outside of a transaction it
// is a no-op.
func Msg(ctx context.Context, format string, args ...any) {
	pl, ok := ctx.Value(programLogKey{}).(*programLog)
	if !ok {
		return
	}
	line := fmt.Sprintf(format, args...)
	pl.lines = append(pl.lines, "Program log: "+line)
	pl.log.Debug("program log", zap.String("msg", line))
}

func (pl *programLog) add(format string, args ...any) {
	pl.lines = append(pl.lines, fmt.Sprintf(format, args...))
}
