// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "address_program"

// Labels of the failure counter. Errors returned by the system program are
// counted as reasonInvoke whatever they wrap.
const (
	reasonInvalidInstructionData = "invalid_instruction_data"
	reasonMissingAccount         = "missing_account"
	reasonMissingSignature       = "missing_required_signature"
	reasonInvalidAccountData     = "invalid_account_data"
	reasonIncorrectProgramID     = "incorrect_program_id"
	reasonInvoke                 = "invoke"
	reasonInternal               = "internal"
)

type metrics struct {
	created prometheus.Counter
	failed  *prometheus.CounterVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "created",
			Help:      "number of address accounts created",
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed",
			Help:      "number of failed create instructions by reason",
		}, []string{"reason"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.created),
		r.Register(m.failed),
	)
	return m, errs.Err
}

func (m *metrics) observe(reason string, err error) {
	if err == nil {
		m.created.Inc()
		return
	}
	m.failed.WithLabelValues(reason).Inc()
}
