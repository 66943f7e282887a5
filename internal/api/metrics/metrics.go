// Package metrics defines and registers all custom Prometheus metrics for the
// pet platform API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "petplatform"

// ── Pet metrics ───────────────────────────────────────────────────────────────

// PetsCreatedTotal counts newly created pet profiles.
// Label:
//   - species: "dog", "cat", "bird", "rabbit", or "other"
var PetsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pets_created_total",
		Help:      "Total number of pet profiles created, by species.",
	},
	[]string{"species"},
)

// SlugConflictsTotal counts inserts rejected by the unique slug index. These
// are the check-then-insert races the creation path retries over.
var SlugConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slug_conflicts_total",
		Help:      "Total number of pet inserts rejected by the unique slug index.",
	},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AccessDeniedTotal counts requests rejected by the authorization layer.
// Label:
//   - reason: "unauthenticated" or "unauthorized"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by authentication or capability checks.",
	},
	[]string{"reason"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// ProfileCacheTotal counts public-profile cache lookups.
// Label:
//   - result: "hit" (served from Redis) or "miss" (loaded from Mongo)
var ProfileCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_cache_total",
		Help:      "Total number of public-profile cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityEventsTotal counts activity events that completed persistence.
// Label:
//   - kind: the activity kind (e.g. "pet_created", "member_added")
var ActivityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_total",
		Help:      "Total number of activity events successfully persisted.",
	},
	[]string{"kind"},
)

// ActivityQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityWriteDuration measures how long a single activity event takes to persist.
// Label:
//   - outcome: "ok" or "error"
var ActivityWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_write_duration_seconds",
		Help:      "Duration of activity event persistence from dequeue to write.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"outcome"},
)
