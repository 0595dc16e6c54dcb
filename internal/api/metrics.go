package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_written_total",
		Help: "Ledger entries created or replaced, per collection.",
	}, []string{"collection"})

	entriesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_deleted_total",
		Help: "Ledger entries deleted, per collection.",
	}, []string{"collection"})

	invoicesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_invoices_saved_total",
		Help: "Invoices saved.",
	})
)
