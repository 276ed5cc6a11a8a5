// Package metrics defines and registers all custom Prometheus metrics for the
// bookstore marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto at
// package init; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookstore"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts successful account registrations.
// Label:
//   - role: "buyer" or "seller"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogMutationsTotal counts book updates and deletions.
// Label:
//   - action: "updated" or "deleted"
var CatalogMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_mutations_total",
		Help:      "Total number of catalog mutations, by action.",
	},
	[]string{"action"},
)

// CacheLookupsTotal counts catalog cache decisions.
// Label:
//   - result: "hit" or "miss"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of catalog cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Import metrics ────────────────────────────────────────────────────────────

// BooksImportedTotal counts books inserted by CSV imports.
var BooksImportedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_imported_total",
		Help:      "Total number of books inserted through CSV imports.",
	},
)

// ImportRowsRejectedTotal counts CSV rows rejected during import.
// Label:
//   - reason: "bad_price", "empty_field", "missing_columns", "malformed_row"
var ImportRowsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_rejected_total",
		Help:      "Total number of CSV rows rejected during import, by reason.",
	},
	[]string{"reason"},
)

// ImportDuration measures how long a single CSV import takes end-to-end.
var ImportDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_duration_seconds",
		Help:      "Duration of a CSV import from first read to bulk insert.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
