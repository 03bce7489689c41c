// Package observability provides prometheus metrics for the application.
// Request-level HTTP metrics come from the fiberprometheus middleware; the
// counters here cover the app-specific events it cannot see.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truckstop_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RegistrationsTotal counts completed registrations by role.
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truckstop_registrations_total",
		Help: "Total number of completed registrations by role",
	}, []string{"role"})

	// LoginFailuresTotal counts rejected login attempts.
	LoginFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "truckstop_login_failures_total",
		Help: "Total number of rejected login attempts",
	})

	// TrucksCreatedTotal counts truck listings created, labeled by the path
	// that created them (signup or submission).
	TrucksCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truckstop_trucks_created_total",
		Help: "Total number of truck listings created by origin",
	}, []string{"origin"})
)
