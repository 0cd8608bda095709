// backend/services/settlement_test.go
package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroshield/oracle/backend/models"
)

func TestBuildSettlementResponseEligible(t *testing.T) {
	decision := Evaluate(activePolicy(), landedObservation(90), evalTime)

	resp := BuildSettlementResponse("job-42", decision)

	assert.Equal(t, "job-42", resp.JobRunID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Status)
	assert.False(t, resp.Retryable)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "eligible", resp.Data.Outcome)
	assert.Equal(t, "DELAY_THRESHOLD_MET", resp.Data.Reason)
	assert.Equal(t, 1.0, resp.Data.PayoutAmount)
	assert.Equal(t, 90, resp.Data.DelayMinutes)
	assert.Equal(t, "1234", resp.Data.FlightNumber)
	assert.Equal(t, "DL", resp.Data.Airline)
	assert.Equal(t, landedObservation(90).ActualArrival.Unix(), resp.Data.ActualArrival)
}

func TestBuildSettlementResponseNotEligibleIsStillSuccess(t *testing.T) {
	decision := Evaluate(activePolicy(), landedObservation(10), evalTime)

	resp := BuildSettlementResponse("job-42", decision)

	// A deterministic rejection is a 200; only transport faults are 500s.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Status)
	assert.Equal(t, "not_eligible", resp.Data.Outcome)
}

func TestBuildSettlementResponseIndeterminate(t *testing.T) {
	decision := Evaluate(activePolicy(), nil, evalTime)

	resp := BuildSettlementResponse("job-42", decision)

	assert.Equal(t, "indeterminate", resp.Status)
	assert.True(t, resp.Retryable)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "indeterminate", resp.Data.Outcome)
	assert.Equal(t, 0.0, resp.Data.PayoutAmount)
	assert.NotEqual(t, "errored", resp.Status,
		"indeterminate must not be reported as an error")
}

func TestBuildFlightDataResponse(t *testing.T) {
	obs := landedObservation(90)
	resp := BuildFlightDataResponse("job-7", obs)

	assert.Equal(t, "job-7", resp.JobRunID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "landed", resp.Data.Status)
	assert.Equal(t, 90, resp.Data.DelayMinutes)
	assert.Empty(t, resp.Data.Outcome)
}

func TestBuildFlightDataResponseNoArrival(t *testing.T) {
	obs := landedObservation(0)
	obs.Status = models.StatusScheduled
	obs.ActualArrival = nil

	resp := BuildFlightDataResponse("job-7", obs)
	assert.Zero(t, resp.Data.ActualArrival)
}

func TestBuildErrorResponse(t *testing.T) {
	resp := BuildErrorResponse("job-9", http.StatusInternalServerError, "internal error")

	assert.Equal(t, "job-9", resp.JobRunID)
	assert.Equal(t, "errored", resp.Status)
	assert.Equal(t, "internal error", resp.Error)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Nil(t, resp.Data)
}

func TestBuildIndeterminateResponse(t *testing.T) {
	resp := BuildIndeterminateResponse("job-11")
	assert.Equal(t, "indeterminate", resp.Status)
	assert.True(t, resp.Retryable)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSettlementResponseRoundTripKeepsJobRunID(t *testing.T) {
	// Correlation contract: every envelope carries the original job run ID.
	decision := Evaluate(activePolicy(), landedObservation(90), time.Now().UTC())
	for _, resp := range []models.JobResponse{
		BuildSettlementResponse("corr-1", decision),
		BuildIndeterminateResponse("corr-1"),
		BuildErrorResponse("corr-1", http.StatusBadRequest, "bad"),
	} {
		assert.Equal(t, "corr-1", resp.JobRunID)
	}
}
