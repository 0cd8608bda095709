// backend/models/flight.go
package models

import "time"

// FlightStatus is the provider-agnostic status of a flight.
type FlightStatus string

const (
	StatusScheduled FlightStatus = "scheduled"
	StatusActive    FlightStatus = "active"
	StatusLanded    FlightStatus = "landed"
	StatusCancelled FlightStatus = "cancelled"
	StatusDiverted  FlightStatus = "diverted"
	StatusUnknown   FlightStatus = "unknown"
)

// DataSource identifies which provider slot an observation came from.
type DataSource string

const (
	SourcePrimary   DataSource = "primary"
	SourceSecondary DataSource = "secondary"
)

// FlightIdentifier is the natural key used to query providers and to
// correlate a policy with a flight. Callers must normalize it with
// utils.NormalizeAirlineCode / NormalizeFlightNumber before use, since
// providers are case- and format-sensitive.
type FlightIdentifier struct {
	AirlineCode   string `json:"airline"`
	FlightNumber  string `json:"flightNumber"`
	DepartureDate string `json:"departureDate"` // YYYY-MM-DD, UTC
}

// Designator returns the combined carrier+number form (e.g. "DL1234")
// used by providers that key flights on a single designator string.
func (f FlightIdentifier) Designator() string {
	return f.AirlineCode + f.FlightNumber
}

// FlightObservation is the normalized snapshot of a flight's schedule and
// status produced by one provider for one request. It is never persisted;
// only the ClaimDecision derived from it is.
type FlightObservation struct {
	Identifier         FlightIdentifier `json:"identifier"`
	Status             FlightStatus     `json:"status"`
	ScheduledDeparture time.Time        `json:"scheduledDeparture"`
	ActualDeparture    *time.Time       `json:"actualDeparture,omitempty"` // actual or estimated
	ScheduledArrival   time.Time        `json:"scheduledArrival"`
	ActualArrival      *time.Time       `json:"actualArrival,omitempty"` // actual or estimated
	DelayMinutes       int              `json:"delayMinutes"`
	Source             DataSource       `json:"source"`
	ProviderName       string           `json:"providerName"`
	ObservedAt         time.Time        `json:"observedAt"`
}

// Concluded reports whether the flight has reached a state that can no
// longer change: landed, cancelled, or diverted. A scheduled or airborne
// flight is not concluded, however it looks right now.
func (o *FlightObservation) Concluded() bool {
	if o == nil {
		return false
	}
	switch o.Status {
	case StatusLanded, StatusCancelled, StatusDiverted:
		return true
	}
	return false
}

// DeriveDelayMinutes computes the arrival delay in whole minutes from the
// scheduled and actual/estimated arrival times. Delay is never taken from a
// provider-supplied delay field. A missing actual/estimated time yields 0;
// early arrivals clamp to 0.
func DeriveDelayMinutes(scheduled time.Time, actual *time.Time) int {
	if actual == nil || scheduled.IsZero() || actual.IsZero() {
		return 0
	}
	mins := int(actual.Sub(scheduled) / time.Minute)
	if mins < 0 {
		return 0
	}
	return mins
}
