// Package metrics defines the business Prometheus metrics of the contacts
// API. HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contacts"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRegistrationsTotal counts accounts created through /auth/register.
var AuthRegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registered accounts.",
	},
)

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Contact metrics ───────────────────────────────────────────────────────────

// ContactsCreatedTotal counts contacts added to address books.
var ContactsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of contacts created.",
	},
)

// ContactsStateChangesTotal counts archive and restore operations.
// Label:
//   - action: "archived" or "restored"
var ContactsStateChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "state_changes_total",
		Help:      "Total number of contact archive/restore operations.",
	},
	[]string{"action"},
)

// ContactListSize observes how many contacts a listing page returned.
// Label:
//   - view: "active", "archived" or "search"
var ContactListSize = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_page_size",
		Help:      "Number of contacts returned per listing page.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
	[]string{"view"},
)
