// backend/providers/flightstats.go
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aeroshield/oracle/backend/config"
	"github.com/aeroshield/oracle/backend/models"
)

const flightStatsName = "flightstats"

// FlightStatsClient fetches flight status from the FlightStats Flex API.
// Auth is appId/appKey query parameters; timestamps are zoneless UTC with
// fractional seconds; statuses are single-letter codes.
type FlightStatsClient struct {
	baseURL    string
	appID      string
	appKey     string
	httpClient *http.Client
}

// NewFlightStatsClient creates a FlightStats client from provider config.
func NewFlightStatsClient(cfg config.ProviderConfig) *FlightStatsClient {
	return &FlightStatsClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		appID:   cfg.AppID,
		appKey:  cfg.AppKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *FlightStatsClient) Name() string {
	return flightStatsName
}

// flightStatsResponse mirrors the subset of the Flex flightstatus response
// we consume.
type flightStatsResponse struct {
	FlightStatuses []flightStatsStatus `json:"flightStatuses"`
}

type flightStatsStatus struct {
	Status           string                `json:"status"`
	DepartureDate    flightStatsDate       `json:"departureDate"`
	ArrivalDate      flightStatsDate       `json:"arrivalDate"`
	OperationalTimes flightStatsOpTimes    `json:"operationalTimes"`
}

type flightStatsDate struct {
	DateUTC   string `json:"dateUtc"`
	DateLocal string `json:"dateLocal"`
}

type flightStatsOpTimes struct {
	ActualGateDeparture    *flightStatsDate `json:"actualGateDeparture"`
	EstimatedGateDeparture *flightStatsDate `json:"estimatedGateDeparture"`
	ActualGateArrival      *flightStatsDate `json:"actualGateArrival"`
	EstimatedGateArrival   *flightStatsDate `json:"estimatedGateArrival"`
}

// Fetch retrieves one observation for the given flight. The identifier must
// already be normalized.
func (c *FlightStatsClient) Fetch(ctx context.Context, id models.FlightIdentifier) (*models.FlightObservation, error) {
	reqURL := fmt.Sprintf("%s/flightstatus/rest/v2/json/flight/status/%s/%s",
		c.baseURL, url.PathEscape(id.AirlineCode), url.PathEscape(id.FlightNumber))

	params := url.Values{}
	params.Set("appId", c.appID)
	params.Set("appKey", c.appKey)
	params.Set("utc", "true")
	if id.DepartureDate != "" {
		params.Set("date", id.DepartureDate)
	}
	reqURL += "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, newProviderError(flightStatsName, KindUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(flightStatsName, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, newProviderError(flightStatsName, KindNotFound,
			fmt.Errorf("no record for flight %s/%s on %s", id.AirlineCode, id.FlightNumber, id.DepartureDate))
	case resp.StatusCode != http.StatusOK:
		return nil, newProviderError(flightStatsName, KindUnreachable,
			fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var payload flightStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newProviderError(flightStatsName, KindMalformed, fmt.Errorf("decoding response: %w", err))
	}
	if len(payload.FlightStatuses) == 0 {
		return nil, newProviderError(flightStatsName, KindNotFound,
			fmt.Errorf("empty flightStatuses for %s/%s", id.AirlineCode, id.FlightNumber))
	}

	return c.toObservation(id, payload.FlightStatuses[0])
}

// toObservation maps the Flex schema onto the common observation. Gate
// times prefer actual over estimated; either is acceptable per the
// actual-or-estimated contract.
func (c *FlightStatsClient) toObservation(id models.FlightIdentifier, f flightStatsStatus) (*models.FlightObservation, error) {
	scheduledDep, okDep := parseTimestamp(f.DepartureDate.DateUTC)
	scheduledArr, okArr := parseTimestamp(f.ArrivalDate.DateUTC)
	if !okDep || !okArr {
		return nil, newProviderError(flightStatsName, KindMalformed,
			fmt.Errorf("missing scheduled dates (dep=%q arr=%q)", f.DepartureDate.DateUTC, f.ArrivalDate.DateUTC))
	}
	if f.Status == "" {
		return nil, newProviderError(flightStatsName, KindMalformed,
			fmt.Errorf("response carries no flight status"))
	}

	actualDep := gateTime(f.OperationalTimes.ActualGateDeparture)
	if actualDep == nil {
		actualDep = gateTime(f.OperationalTimes.EstimatedGateDeparture)
	}
	actualArr := gateTime(f.OperationalTimes.ActualGateArrival)
	if actualArr == nil {
		actualArr = gateTime(f.OperationalTimes.EstimatedGateArrival)
	}

	obs := &models.FlightObservation{
		Identifier:         id,
		Status:             mapFlightStatsStatus(f.Status),
		ScheduledDeparture: scheduledDep,
		ActualDeparture:    actualDep,
		ScheduledArrival:   scheduledArr,
		ActualArrival:      actualArr,
		DelayMinutes:       models.DeriveDelayMinutes(scheduledArr, actualArr),
		ProviderName:       flightStatsName,
		ObservedAt:         time.Now().UTC(),
	}
	log.Printf("Provider: flightstats observation for %s/%s: status=%s delay=%dmin\n",
		id.AirlineCode, id.FlightNumber, obs.Status, obs.DelayMinutes)
	return obs, nil
}

func gateTime(d *flightStatsDate) *time.Time {
	if d == nil {
		return nil
	}
	return parseOptionalTimestamp(d.DateUTC)
}

// mapFlightStatsStatus normalizes the Flex single-letter status codes.
// R ("Redirected") is treated as a diversion; DN ("Data Not Available") and
// NO ("Not Operational") fall through to unknown.
func mapFlightStatsStatus(code string) models.FlightStatus {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "A":
		return models.StatusActive
	case "C":
		return models.StatusCancelled
	case "D", "R":
		return models.StatusDiverted
	case "L":
		return models.StatusLanded
	case "S":
		return models.StatusScheduled
	default:
		return models.StatusUnknown
	}
}
