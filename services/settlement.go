// backend/services/settlement.go
package services

import (
	"net/http"

	"github.com/aeroshield/oracle/backend/models"
)

// Envelope status values understood by the settlement pipeline.
const (
	envelopeStatusErrored       = "errored"
	envelopeStatusIndeterminate = "indeterminate"
)

// BuildSettlementResponse serializes a claim decision into the job-run
// envelope consumed by the settlement pipeline. Deterministic outcomes
// (eligible and not-eligible alike) are statusCode 200 successes. An
// indeterminate decision is encoded as its own retryable envelope status —
// never as an error and never as a success the pipeline could mistake for
// a final rejection.
func BuildSettlementResponse(jobRunID string, decision models.ClaimDecision) models.JobResponse {
	data := &models.JobData{
		PolicyID:     decision.PolicyID,
		Outcome:      string(decision.Outcome),
		Reason:       string(decision.Reason),
		DelayMinutes: decision.ObservedDelayMinutes,
		PayoutAmount: decision.PayoutAmount,
		Status:       string(models.StatusUnknown),
	}
	if obs := decision.SourceObservation; obs != nil {
		data.FlightNumber = obs.Identifier.FlightNumber
		data.Airline = obs.Identifier.AirlineCode
		data.Status = string(obs.Status)
		if obs.ActualArrival != nil {
			data.ActualArrival = obs.ActualArrival.Unix()
		}
	}

	resp := models.JobResponse{
		JobRunID:   jobRunID,
		Data:       data,
		StatusCode: http.StatusOK,
	}
	if decision.Outcome == models.OutcomeIndeterminate {
		resp.Status = envelopeStatusIndeterminate
		resp.Retryable = true
	}
	return resp
}

// BuildFlightDataResponse serializes a bare observation for requests that
// carry no policy reference, matching the plain flight-data mode of the
// adapter contract.
func BuildFlightDataResponse(jobRunID string, obs *models.FlightObservation) models.JobResponse {
	data := &models.JobData{
		FlightNumber: obs.Identifier.FlightNumber,
		Airline:      obs.Identifier.AirlineCode,
		Status:       string(obs.Status),
		DelayMinutes: obs.DelayMinutes,
	}
	if obs.ActualArrival != nil {
		data.ActualArrival = obs.ActualArrival.Unix()
	}
	return models.JobResponse{
		JobRunID:   jobRunID,
		Data:       data,
		StatusCode: http.StatusOK,
	}
}

// BuildIndeterminateResponse is the data-less retryable envelope used when
// resolution fails before any decision exists (no policy in play).
func BuildIndeterminateResponse(jobRunID string) models.JobResponse {
	return models.JobResponse{
		JobRunID:   jobRunID,
		Status:     envelopeStatusIndeterminate,
		Error:      "flight status unavailable from all sources",
		Retryable:  true,
		StatusCode: http.StatusOK,
	}
}

// BuildErrorResponse is the errored envelope for request and internal
// faults. The message must already be safe to expose to callers.
func BuildErrorResponse(jobRunID string, statusCode int, message string) models.JobResponse {
	return models.JobResponse{
		JobRunID:   jobRunID,
		Status:     envelopeStatusErrored,
		Error:      message,
		StatusCode: statusCode,
	}
}
