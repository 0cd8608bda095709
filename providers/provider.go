// backend/providers/provider.go
package providers

import (
	"context"

	"github.com/aeroshield/oracle/backend/models"
)

// Client is the capability every flight-data provider integration must
// offer: fetch one observation for one already-normalized identifier.
// Implementations translate their proprietary schema into the common
// FlightObservation and report failures as *ProviderError. They never retry
// and never cache; retry and fallback policy lives in the resolver so the
// total latency budget is controlled in one place.
type Client interface {
	Name() string
	Fetch(ctx context.Context, id models.FlightIdentifier) (*models.FlightObservation, error)
}
