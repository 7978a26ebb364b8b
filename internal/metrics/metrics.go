// Package metrics defines and registers all custom Prometheus metrics for the
// fish price service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fishprice"

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts read-through cache lookups.
// Labels:
//   - query: "fish_types", "latest", or "by_type"
//   - result: "hit", "miss", or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of cache lookups on public read paths, by query and result.",
	},
	[]string{"query", "result"},
)

// CacheInvalidationsTotal counts prefix invalidations issued after writes.
// Label:
//   - result: "ok" or "error"
var CacheInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Total number of cache prefix invalidations, by result.",
	},
	[]string{"result"},
)

// ── Price metrics ─────────────────────────────────────────────────────────────

// PriceWritesTotal counts successful admin writes.
// Label:
//   - op: "create", "update", or "delete"
var PriceWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_writes_total",
		Help:      "Total number of fish price records written, by operation.",
	},
	[]string{"op"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthDenialsTotal counts denied admin requests and logins.
// Label:
//   - kind: the denial kind (e.g. "auth_missing", "auth_invalid_token", "login_failed")
var AuthDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denials_total",
		Help:      "Total number of authentication denials, by internal cause.",
	},
	[]string{"kind"},
)

// LoginsTotal counts successful admin logins.
// Label:
//   - mode: "durable" or "fallback"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful admin logins, by operating mode.",
	},
	[]string{"mode"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events discarded because the
// dispatcher queue was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped because the queue was full.",
	},
)

// AuditSinkErrorsTotal counts swallowed audit sink failures.
// Label:
//   - sink: "file" or "mongo"
var AuditSinkErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_sink_errors_total",
		Help:      "Total number of audit sink write failures that were discarded.",
	},
	[]string{"sink"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
