// backend/providers/flightaware.go
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

const flightAwareName = "flightaware"

// FlightAwareClient fetches flight status from the FlightAware AeroAPI.
// Auth is an x-apikey header; timestamps are RFC3339; statuses are verbose
// strings like "Arrived / Gate Arrival".
type FlightAwareClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewFlightAwareClient creates a FlightAware client from provider config.
func NewFlightAwareClient(cfg config.ProviderConfig) *FlightAwareClient {
	return &FlightAwareClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *FlightAwareClient) Name() string {
	return flightAwareName
}

// flightAwareResponse mirrors the subset of the AeroAPI flight response we
// consume.
type flightAwareResponse struct {
	Flights []flightAwareFlight `json:"flights"`
}

type flightAwareFlight struct {
	Status       string `json:"status"`
	ScheduledOut string `json:"scheduled_out"`
	ActualOut    string `json:"actual_out"`
	EstimatedOut string `json:"estimated_out"`
	ScheduledIn  string `json:"scheduled_in"`
	ActualIn     string `json:"actual_in"`
	EstimatedIn  string `json:"estimated_in"`
	Cancelled    bool   `json:"cancelled"`
	Diverted     bool   `json:"diverted"`
}

// Fetch retrieves one observation for the given flight. The identifier must
// already be normalized.
func (c *FlightAwareClient) Fetch(ctx context.Context, id models.FlightIdentifier) (*models.FlightObservation, error) {
	reqURL := fmt.Sprintf("%s/flights/%s", c.baseURL, url.PathEscape(id.Designator()))
	if id.DepartureDate != "" {
		reqURL += "?date=" + url.QueryEscape(id.DepartureDate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, newProviderError(flightAwareName, KindUnreachable, err)
	}
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(flightAwareName, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, newProviderError(flightAwareName, KindNotFound,
			fmt.Errorf("no record for flight %s on %s", id.Designator(), id.DepartureDate))
	case resp.StatusCode != http.StatusOK:
		return nil, newProviderError(flightAwareName, KindUnreachable,
			fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var payload flightAwareResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newProviderError(flightAwareName, KindMalformed, fmt.Errorf("decoding response: %w", err))
	}
	if len(payload.Flights) == 0 {
		return nil, newProviderError(flightAwareName, KindNotFound,
			fmt.Errorf("empty flight list for %s", id.Designator()))
	}

	return c.toObservation(id, payload.Flights[0])
}

// toObservation maps the AeroAPI schema onto the common observation.
// Scheduled times and a status are required to evaluate a claim; actual and
// estimated times are best-effort.
func (c *FlightAwareClient) toObservation(id models.FlightIdentifier, f flightAwareFlight) (*models.FlightObservation, error) {
	scheduledDep, okDep := parseTimestamp(f.ScheduledOut)
	scheduledArr, okArr := parseTimestamp(f.ScheduledIn)
	if !okDep || !okArr {
		return nil, newProviderError(flightAwareName, KindMalformed,
			fmt.Errorf("missing scheduled times (out=%q in=%q)", f.ScheduledOut, f.ScheduledIn))
	}

	status := mapFlightAwareStatus(f)
	if status == models.StatusUnknown && f.Status == "" {
		return nil, newProviderError(flightAwareName, KindMalformed,
			fmt.Errorf("response carries no flight status"))
	}

	actualDep := parseOptionalTimestamp(f.ActualOut)
	if actualDep == nil {
		actualDep = parseOptionalTimestamp(f.EstimatedOut)
	}
	actualArr := parseOptionalTimestamp(f.ActualIn)
	if actualArr == nil {
		actualArr = parseOptionalTimestamp(f.EstimatedIn)
	}

	obs := &models.FlightObservation{
		Identifier:         id,
		Status:             status,
		ScheduledDeparture: scheduledDep,
		ActualDeparture:    actualDep,
		ScheduledArrival:   scheduledArr,
		ActualArrival:      actualArr,
		DelayMinutes:       models.DeriveDelayMinutes(scheduledArr, actualArr),
		ProviderName:       flightAwareName,
		ObservedAt:         time.Now().UTC(),
	}
	log.Printf("Provider: flightaware observation for %s: status=%s delay=%dmin\n",
		id.Designator(), obs.Status, obs.DelayMinutes)
	return obs, nil
}

// mapFlightAwareStatus normalizes AeroAPI's verbose status strings. The
// cancelled/diverted booleans win over the text, which can lag behind.
func mapFlightAwareStatus(f flightAwareFlight) models.FlightStatus {
	if f.Cancelled {
		return models.StatusCancelled
	}
	if f.Diverted {
		return models.StatusDiverted
	}

	s := strings.ToLower(f.Status)
	switch {
	case strings.Contains(s, "cancel"):
		return models.StatusCancelled
	case strings.Contains(s, "divert"):
		return models.StatusDiverted
	case strings.Contains(s, "arrived"), strings.Contains(s, "landed"):
		return models.StatusLanded
	case strings.Contains(s, "en route"), strings.Contains(s, "airborne"),
		strings.Contains(s, "taxiing"), strings.Contains(s, "delayed"):
		return models.StatusActive
	case strings.Contains(s, "scheduled"), strings.Contains(s, "filed"):
		return models.StatusScheduled
	default:
		return models.StatusUnknown
	}
}
