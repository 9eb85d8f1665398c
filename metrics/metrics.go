package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsProcessed counts dialogue turns by the state they were handled in.
	TurnsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lead_agent",
		Name:      "turns_processed_total",
		Help:      "Dialogue turns processed, labeled by conversation state.",
	}, []string{"state"})

	// SyncFailures counts CRM synchronization attempts that were logged and
	// swallowed.
	SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lead_agent",
		Name:      "crm_sync_failures_total",
		Help:      "CRM contact synchronization failures.",
	})

	// CatalogSearches counts ranked catalog queries issued mid-dialogue.
	CatalogSearches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lead_agent",
		Name:      "catalog_searches_total",
		Help:      "Catalog ranking queries executed.",
	})
)
