// backend/services/resolver.go
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/aeroshield/oracle/backend/metrics"
	"github.com/aeroshield/oracle/backend/models"
	"github.com/aeroshield/oracle/backend/providers"
)

// ErrIndeterminate is returned by Resolve when no provider yielded a usable
// observation. It is a terminal outcome for the request, not a system
// error: callers report it as "no reliable data yet" so the pipeline can
// retry later. It must never be collapsed into a synthetic on-time
// observation, which would bias evaluation toward NotEligible.
var ErrIndeterminate = errors.New("no reliable flight data available")

// Attempt is one entry in the resolver's ordered fallback list: a provider
// client, the source slot it fills, and its latency budget.
type Attempt struct {
	Role    models.DataSource
	Client  providers.Client
	Timeout time.Duration
}

// Resolver orchestrates the provider clients with an ordered primary ->
// fallback policy. Each attempt runs once under its own bounded timeout;
// there is no cross-pair retry loop, so worst-case latency is the sum of
// the attempt timeouts.
type Resolver struct {
	attempts []Attempt
}

// NewResolver builds a resolver over the given ordered attempts.
func NewResolver(attempts ...Attempt) *Resolver {
	return &Resolver{attempts: attempts}
}

// Resolve walks the attempt list in order and returns the first usable
// observation, tagged with the source slot that produced it. The next
// attempt is consulted only when the previous one failed or reported an
// unknown status; a successful primary observation short-circuits, so the
// two sources are never cross-validated. When every attempt is exhausted
// Resolve returns ErrIndeterminate. A cancelled inbound request aborts the
// walk with the context error.
func (r *Resolver) Resolve(ctx context.Context, id models.FlightIdentifier) (*models.FlightObservation, error) {
	for _, attempt := range r.attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, attempt.Timeout)
		obs, err := attempt.Client.Fetch(attemptCtx, id)
		cancel()

		if err != nil {
			// The inbound request going away is not a provider failure.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			kind := providers.ErrorKindOf(err)
			if kind == "" {
				kind = "error"
			}
			metrics.ProviderRequests.WithLabelValues(attempt.Client.Name(), string(kind)).Inc()
			log.Printf("WARN Resolver: %s source %s failed (%s): %v\n",
				attempt.Role, attempt.Client.Name(), kind, err)
			continue
		}

		if obs.Status == models.StatusUnknown {
			// A provider that answers but cannot say what happened to the
			// flight is no better than one that failed.
			metrics.ProviderRequests.WithLabelValues(attempt.Client.Name(), "unknown").Inc()
			log.Printf("WARN Resolver: %s source %s returned unknown status for %s\n",
				attempt.Role, attempt.Client.Name(), id.Designator())
			continue
		}

		metrics.ProviderRequests.WithLabelValues(attempt.Client.Name(), "success").Inc()
		obs.Source = attempt.Role
		log.Printf("Resolver: resolved %s from %s source %s (status=%s delay=%dmin)\n",
			id.Designator(), attempt.Role, attempt.Client.Name(), obs.Status, obs.DelayMinutes)
		return obs, nil
	}

	log.Printf("Resolver: all sources exhausted for %s, yielding indeterminate\n", id.Designator())
	return nil, ErrIndeterminate
}
