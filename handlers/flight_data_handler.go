// backend/handlers/flight_data_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/aeroshield/oracle/backend/metrics"
	"github.com/aeroshield/oracle/backend/models"
	"github.com/aeroshield/oracle/backend/reference"
	"github.com/aeroshield/oracle/backend/services"
	"github.com/aeroshield/oracle/backend/utils"
)

// FlightDataHandler is the /flight-data boundary for the settlement
// pipeline: validate the job request, resolve the flight, evaluate the
// claim, and return the job-run envelope. All per-request state is local;
// the handler itself is safe for concurrent use.
type FlightDataHandler struct {
	Resolver *services.Resolver
	Ledger   services.Ledger
	Carriers *reference.CarrierTable
	Now      func() time.Time
}

// NewFlightDataHandler wires the handler. Carriers may be nil when no
// reference CSV is configured.
func NewFlightDataHandler(resolver *services.Resolver, ledger services.Ledger, carriers *reference.CarrierTable) *FlightDataHandler {
	return &FlightDataHandler{
		Resolver: resolver,
		Ledger:   ledger,
		Carriers: carriers,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Handle serves POST /flight-data.
func (h *FlightDataHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Unexpected internal faults become a generic errored envelope; detail
	// stays in the server-side log only.
	var jobRunID string
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("ERROR Handler: panic serving flight-data request %q: %v\n", jobRunID, rec)
			resp := services.BuildErrorResponse(jobRunID, http.StatusInternalServerError, "internal error")
			respondWithJSON(w, resp.StatusCode, resp)
		}
	}()

	if r.Method != http.MethodPost {
		resp := services.BuildErrorResponse("", http.StatusMethodNotAllowed, "Only POST method is allowed")
		respondWithJSON(w, resp.StatusCode, resp)
		return
	}

	var req models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp := services.BuildErrorResponse("", http.StatusBadRequest, "invalid JSON request body")
		respondWithJSON(w, resp.StatusCode, resp)
		return
	}
	jobRunID = req.JobRunID

	id, errMsg := h.normalizeRequest(req)
	if errMsg != "" {
		resp := services.BuildErrorResponse(req.JobRunID, http.StatusBadRequest, errMsg)
		respondWithJSON(w, resp.StatusCode, resp)
		return
	}

	if req.PolicyID == "" {
		h.serveFlightData(r.Context(), w, req.JobRunID, id)
		return
	}
	h.serveClaimDecision(r.Context(), w, req.JobRunID, req.PolicyID, id)
}

// normalizeRequest validates required fields and produces the normalized
// flight identifier the providers are queried with.
func (h *FlightDataHandler) normalizeRequest(req models.JobRequest) (models.FlightIdentifier, string) {
	if req.FlightNumber == "" || req.Airline == "" {
		return models.FlightIdentifier{}, "Missing required parameters: flightNumber and airline"
	}

	airline := utils.NormalizeAirlineCode(req.Airline)
	number := utils.NormalizeFlightNumber(req.FlightNumber, airline)
	airline = h.Carriers.ResolveAirlineCode(airline)
	if number == "" {
		return models.FlightIdentifier{}, "flightNumber contains no flight number"
	}

	date := req.Date
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return models.FlightIdentifier{}, "date must be formatted YYYY-MM-DD"
		}
		date = parsed.Format("2006-01-02")
	}

	return models.FlightIdentifier{
		AirlineCode:   airline,
		FlightNumber:  number,
		DepartureDate: date,
	}, ""
}

// serveFlightData handles requests without a policy reference: plain
// flight-status mode, no claim evaluation.
func (h *FlightDataHandler) serveFlightData(ctx context.Context, w http.ResponseWriter, jobRunID string, id models.FlightIdentifier) {
	obs, err := h.Resolver.Resolve(ctx, id)
	if errors.Is(err, services.ErrIndeterminate) {
		resp := services.BuildIndeterminateResponse(jobRunID)
		respondWithJSON(w, http.StatusOK, resp)
		return
	}
	if err != nil {
		// Inbound request cancelled; nothing useful to report.
		log.Printf("Handler: flight-data request %q aborted: %v\n", jobRunID, err)
		return
	}
	resp := services.BuildFlightDataResponse(jobRunID, obs)
	respondWithJSON(w, resp.StatusCode, resp)
}

// serveClaimDecision drives the full resolve -> evaluate -> build sequence
// for a settlement request, replaying the journaled decision when the
// policy has already been settled.
func (h *FlightDataHandler) serveClaimDecision(ctx context.Context, w http.ResponseWriter, jobRunID, policyID string, id models.FlightIdentifier) {
	journaled, err := h.Ledger.FindDecision(ctx, policyID)
	if err != nil {
		log.Printf("ERROR Handler: decision lookup failed for policy %s: %v\n", policyID, err)
		resp := services.BuildErrorResponse(jobRunID, http.StatusInternalServerError, "ledger unavailable")
		respondWithJSON(w, resp.StatusCode, resp)
		return
	}
	if journaled != nil && journaled.Final() {
		log.Printf("Handler: replaying journaled decision %s for policy %s\n", journaled.ID, policyID)
		resp := services.BuildSettlementResponse(jobRunID, *journaled)
		respondWithJSON(w, resp.StatusCode, resp)
		return
	}

	policy, err := h.Ledger.GetPolicy(ctx, policyID)
	if errors.Is(err, services.ErrPolicyNotFound) {
		resp := services.BuildErrorResponse(jobRunID, http.StatusNotFound, "unknown policy: "+policyID)
		respondWithJSON(w, resp.StatusCode, resp)
		return
	}
	if err != nil {
		log.Printf("ERROR Handler: policy lookup failed for %s: %v\n", policyID, err)
		resp := services.BuildErrorResponse(jobRunID, http.StatusInternalServerError, "ledger unavailable")
		respondWithJSON(w, resp.StatusCode, resp)
		return
	}

	// The request must name the flight the policy covers; a delayed but
	// unrelated flight must never settle someone else's policy.
	if policy.Flight.AirlineCode != "" && policy.Flight.FlightNumber != "" {
		if id.AirlineCode != policy.Flight.AirlineCode || id.FlightNumber != policy.Flight.FlightNumber {
			resp := services.BuildErrorResponse(jobRunID, http.StatusBadRequest,
				"flight does not match the one covered by policy "+policyID)
			respondWithJSON(w, resp.StatusCode, resp)
			return
		}
		if id.DepartureDate == "" {
			id.DepartureDate = policy.Flight.DepartureDate
		} else if policy.Flight.DepartureDate != "" && id.DepartureDate != policy.Flight.DepartureDate {
			resp := services.BuildErrorResponse(jobRunID, http.StatusBadRequest,
				"date does not match the flight covered by policy "+policyID)
			respondWithJSON(w, resp.StatusCode, resp)
			return
		}
	}

	// An inactive policy decides the claim without any flight data, so the
	// providers are not consulted at all.
	var obs *models.FlightObservation
	if policy.Status == models.PolicyActive {
		obs, err = h.Resolver.Resolve(ctx, id)
		if err != nil && !errors.Is(err, services.ErrIndeterminate) {
			// Cancelled mid-resolution: a partial evaluation must not be
			// reported as a decision.
			log.Printf("Handler: settlement request %q aborted: %v\n", jobRunID, err)
			return
		}
	}

	decision := services.Evaluate(*policy, obs, h.Now())
	metrics.ClaimDecisions.WithLabelValues(string(decision.Outcome), string(decision.Reason)).Inc()

	// Only final decisions enter the journal. A below-threshold rejection
	// made before the flight concludes stays unjournaled so a later request
	// re-evaluates against fresh flight data.
	if decision.Final() {
		if err := h.Ledger.SubmitClaimDecision(ctx, &decision); err != nil {
			// The evaluation is deterministic, so failing the request here
			// is safe: the pipeline's retry will reproduce the decision.
			log.Printf("ERROR Handler: failed to journal decision for policy %s: %v\n", policyID, err)
			resp := services.BuildErrorResponse(jobRunID, http.StatusInternalServerError, "failed to record decision")
			respondWithJSON(w, resp.StatusCode, resp)
			return
		}
	}

	resp := services.BuildSettlementResponse(jobRunID, decision)
	respondWithJSON(w, resp.StatusCode, resp)
}
