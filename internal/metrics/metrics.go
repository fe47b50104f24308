// Package metrics defines the Prometheus collectors for ledger activity.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/registry"
)

const namespace = "splitledger"

// Rejection reasons used as the "reason" label.
const (
	ReasonInvalidAmount        = "invalid_amount"
	ReasonShareMismatch        = "share_mismatch"
	ReasonInvalidShares        = "invalid_shares"
	ReasonNoParticipants       = "no_participants"
	ReasonUnknownParticipant   = "unknown_participant"
	ReasonDuplicateParticipant = "duplicate_participant"
	ReasonOther                = "other"
)

// Metrics groups the collectors updated by the ledger service.
type Metrics struct {
	ParticipantsRegistered prometheus.Counter
	ExpensesRecorded       *prometheus.CounterVec
	ExpensesRejected       *prometheus.CounterVec
	LogEntries             prometheus.Counter
	SettlementTransfers    prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ParticipantsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participants_registered_total",
			Help:      "Number of participants added to the registry.",
		}),
		ExpensesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_recorded_total",
			Help:      "Number of expenses accepted by the ledger, by split policy.",
		}, []string{"policy"}),
		ExpensesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_rejected_total",
			Help:      "Number of expenses rejected by the ledger, by reason.",
		}, []string{"reason"}),
		LogEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_log_entries_total",
			Help:      "Number of transaction log entries appended.",
		}),
		SettlementTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Number of transfers in each computed settlement plan.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}

	collectors := []prometheus.Collector{
		m.ParticipantsRegistered,
		m.ExpensesRecorded,
		m.ExpensesRejected,
		m.LogEntries,
		m.SettlementTransfers,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RejectionReason maps a ledger error to a "reason" label value.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, calculator.ErrShareMismatch):
		return ReasonShareMismatch
	case errors.Is(err, calculator.ErrInvalidShares):
		return ReasonInvalidShares
	case errors.Is(err, calculator.ErrInvalidAmount):
		return ReasonInvalidAmount
	case errors.Is(err, calculator.ErrNoParticipants):
		return ReasonNoParticipants
	case errors.Is(err, registry.ErrUnknownParticipant):
		return ReasonUnknownParticipant
	case errors.Is(err, registry.ErrDuplicateParticipant):
		return ReasonDuplicateParticipant
	default:
		return ReasonOther
	}
}
