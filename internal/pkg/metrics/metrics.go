package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger operation counters, exposed on /metrics.
var (
	ChargesComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "borrowdesk_charges_computed_total",
		Help: "Number of pending interest charges computed (including recomputations).",
	})

	ChargesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "borrowdesk_charges_settled_total",
		Help: "Number of pending interest charges settled into history.",
	})

	RepaymentsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "borrowdesk_repayments_applied_total",
		Help: "Number of repayments applied against borrows.",
	})

	RepaymentsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "borrowdesk_repayments_rejected_total",
		Help: "Number of repayments refused because interest was outstanding.",
	})
)
