// Package metrics exposes Prometheus counters for persistence, branch
// switching and report exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes.
const (
	LoadHit     = "hit"
	LoadMiss    = "miss"
	LoadCorrupt = "corrupt"
	LoadError   = "error"
)

// StoreSaves counts branch record writes by result (ok, error).
var StoreSaves = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shiftreport_store_saves_total",
	Help: "Branch record writes by result.",
}, []string{"result"})

// StoreLoads counts branch record reads by outcome.
var StoreLoads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shiftreport_store_loads_total",
	Help: "Branch record reads by outcome (hit, miss, corrupt, error).",
}, []string{"outcome"})

// BranchSwitches counts branch changes, split by whether the branch had saved data.
var BranchSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shiftreport_branch_switches_total",
	Help: "Branch switches by whether a saved record was found.",
}, []string{"restored"})

// GuardRejections counts refused removals of the last row or expense.
var GuardRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shiftreport_guard_rejections_total",
	Help: "Refused removals that would empty a table or expense list.",
}, []string{"guard"})

// Exports counts report exports by format and result.
var Exports = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shiftreport_exports_total",
	Help: "Report exports by format and result.",
}, []string{"format", "result"})

// ExportDuration tracks how long each export format takes to produce.
var ExportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "shiftreport_export_duration_seconds",
	Help:    "Time spent producing a report export.",
	Buckets: prometheus.DefBuckets,
}, []string{"format"})

// HTTPGuardHits counts requests refused or flagged by the HTTP guards.
var HTTPGuardHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shiftreport_http_guard_hits_total",
	Help: "Requests rate limited or flagged as suspicious.",
}, []string{"guard"})
