// Package circuitbreaker pauses requests to a registry environment after
// repeated failures.
package circuitbreaker

import (
	"context"
	"errors"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

const (
	defaultFailureThreshold = 5
	defaultFailWindow       = 10
	defaultOpenCooldown     = 30
	defaultHalfOpenLease    = 5
	defaultFailOpen         = true
	defaultPrefix           = "cb:"
)

// Breaker is consulted before each request and told how it went.
type Breaker interface {
	Allow(ctx context.Context) error
	OnSuccess(ctx context.Context)
	OnFailure(ctx context.Context)
	// Release ends a granted call that proved nothing about the registry,
	// such as one rejected before it left the client.
	Release(ctx context.Context)
}

type Options struct {
	// Number of failures before entering open state.
	FailureThreshold int
	// Time between failures to count as an outage.
	FailWindow time.Duration
	// How long to stay in open state before triggering half-open state.
	OpenCoolDown time.Duration
	// Lease that lets a single client at a time probe whether the circuit can close again.
	HalfOpenLease time.Duration
	// What Allow does while redis is unreachable and the state is unknown.
	// true lets requests through, false blocks them.
	FailOpen bool
	// Key prefix to prevent name clashing.
	Prefix string
}

func DefaultOptions() Options {
	return Options{
		FailureThreshold: defaultFailureThreshold,
		FailWindow:       defaultFailWindow * time.Second,
		OpenCoolDown:     defaultOpenCooldown * time.Second,
		HalfOpenLease:    defaultHalfOpenLease * time.Second,
		FailOpen:         defaultFailOpen,
		Prefix:           defaultPrefix,
	}
}

// withDefaults fills unset fields from DefaultOptions. A zero Options is
// replaced wholesale, FailOpen included.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o == (Options{}) {
		return def
	}

	if o.FailureThreshold <= 0 {
		o.FailureThreshold = def.FailureThreshold
	}
	if o.FailWindow <= 0 {
		o.FailWindow = def.FailWindow
	}
	if o.OpenCoolDown <= 0 {
		o.OpenCoolDown = def.OpenCoolDown
	}
	if o.HalfOpenLease <= 0 {
		o.HalfOpenLease = def.HalfOpenLease
	}
	if o.Prefix == "" {
		o.Prefix = def.Prefix
	}
	return o
}
