// backend/services/evaluator_test.go
package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroshield/oracle/backend/models"
)

var evalTime = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

func activePolicy() models.Policy {
	return models.Policy{
		ID:                    "pol-001",
		Flight:                models.FlightIdentifier{AirlineCode: "DL", FlightNumber: "1234", DepartureDate: "2025-03-01"},
		CoverageAmount:        1.0,
		PremiumAmount:         0.05,
		DelayThresholdMinutes: 60,
		Status:                models.PolicyActive,
	}
}

func landedObservation(delayMinutes int) *models.FlightObservation {
	scheduledArr := time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC)
	actualArr := scheduledArr.Add(time.Duration(delayMinutes) * time.Minute)
	return &models.FlightObservation{
		Identifier:         models.FlightIdentifier{AirlineCode: "DL", FlightNumber: "1234", DepartureDate: "2025-03-01"},
		Status:             models.StatusLanded,
		ScheduledDeparture: time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC),
		ScheduledArrival:   scheduledArr,
		ActualArrival:      &actualArr,
		DelayMinutes:       delayMinutes,
		Source:             models.SourcePrimary,
		ProviderName:       "flightaware",
		ObservedAt:         time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC),
	}
}

func TestEvaluateDelayThresholdMet(t *testing.T) {
	decision := Evaluate(activePolicy(), landedObservation(90), evalTime)

	assert.Equal(t, models.OutcomeEligible, decision.Outcome)
	assert.Equal(t, models.ReasonDelayThresholdMet, decision.Reason)
	assert.Equal(t, 90, decision.ObservedDelayMinutes)
	assert.Equal(t, 1.0, decision.PayoutAmount)
}

func TestEvaluateDelayBelowThreshold(t *testing.T) {
	decision := Evaluate(activePolicy(), landedObservation(59), evalTime)

	assert.Equal(t, models.OutcomeNotEligible, decision.Outcome)
	assert.Equal(t, models.ReasonDelayThresholdNotMet, decision.Reason)
	assert.Equal(t, 0.0, decision.PayoutAmount)
}

func TestEvaluateActiveFlightWithoutArrivalNotEligible(t *testing.T) {
	obs := landedObservation(0)
	obs.Status = models.StatusActive
	obs.ActualArrival = nil
	obs.DelayMinutes = 0

	decision := Evaluate(activePolicy(), obs, evalTime)

	assert.Equal(t, models.OutcomeNotEligible, decision.Outcome)
	assert.Equal(t, models.ReasonDelayThresholdNotMet, decision.Reason)
}

func TestEvaluateActiveFlightWithTerminalArrival(t *testing.T) {
	obs := landedObservation(120)
	obs.Status = models.StatusActive

	decision := Evaluate(activePolicy(), obs, evalTime)

	assert.Equal(t, models.OutcomeEligible, decision.Outcome)
	assert.Equal(t, models.ReasonDelayThresholdMet, decision.Reason)
}

func TestEvaluateDisruptionAlwaysEligible(t *testing.T) {
	for _, status := range []models.FlightStatus{models.StatusCancelled, models.StatusDiverted} {
		t.Run(string(status), func(t *testing.T) {
			obs := landedObservation(0)
			obs.Status = status
			obs.ActualArrival = nil
			obs.DelayMinutes = 0

			decision := Evaluate(activePolicy(), obs, evalTime)

			assert.Equal(t, models.OutcomeEligible, decision.Outcome)
			assert.Equal(t, models.ReasonFlightDisrupted, decision.Reason)
			assert.Equal(t, 1.0, decision.PayoutAmount)
		})
	}
}

func TestEvaluateInactivePolicyBeatsFlightData(t *testing.T) {
	for _, status := range []models.PolicyStatus{
		models.PolicyClaimed, models.PolicyRejected, models.PolicyExpired, models.PolicyCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			policy := activePolicy()
			policy.Status = status

			// Even a heavily delayed flight cannot make an inactive policy pay.
			decision := Evaluate(policy, landedObservation(500), evalTime)

			assert.Equal(t, models.OutcomeNotEligible, decision.Outcome)
			assert.Equal(t, models.ReasonPolicyNotActive, decision.Reason)
			assert.Equal(t, 0.0, decision.PayoutAmount)
		})
	}
}

func TestEvaluateIndeterminateObservation(t *testing.T) {
	decision := Evaluate(activePolicy(), nil, evalTime)

	assert.Equal(t, models.OutcomeIndeterminate, decision.Outcome)
	assert.Equal(t, models.ReasonFlightStatusUnavailable, decision.Reason)
	assert.Equal(t, 0.0, decision.PayoutAmount)
	assert.NotEqual(t, models.OutcomeNotEligible, decision.Outcome)
}

func TestEvaluateUnknownStatusIsIndeterminate(t *testing.T) {
	obs := landedObservation(90)
	obs.Status = models.StatusUnknown

	decision := Evaluate(activePolicy(), obs, evalTime)
	assert.Equal(t, models.OutcomeIndeterminate, decision.Outcome)
	assert.Equal(t, models.ReasonFlightStatusUnavailable, decision.Reason)
}

func TestDecisionFinality(t *testing.T) {
	policy := activePolicy()

	early := landedObservation(0)
	early.Status = models.StatusScheduled
	early.ActualArrival = nil
	assert.False(t, Evaluate(policy, early, evalTime).Final(),
		"a rejection before departure must stay open to re-evaluation")

	airborne := landedObservation(0)
	airborne.Status = models.StatusActive
	airborne.ActualArrival = nil
	assert.False(t, Evaluate(policy, airborne, evalTime).Final(),
		"an airborne flight can still cross the threshold")

	assert.True(t, Evaluate(policy, landedObservation(30), evalTime).Final(),
		"a landed below-threshold flight is settled for good")
	assert.True(t, Evaluate(policy, landedObservation(90), evalTime).Final())

	inactive := policy
	inactive.Status = models.PolicyExpired
	assert.True(t, Evaluate(inactive, landedObservation(0), evalTime).Final())

	assert.False(t, Evaluate(policy, nil, evalTime).Final(),
		"indeterminate is never final")
}

func TestEvaluateIsDeterministic(t *testing.T) {
	policy := activePolicy()
	obs := landedObservation(90)

	first := Evaluate(policy, obs, evalTime)
	second := Evaluate(policy, obs, evalTime)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON, "identical inputs must yield byte-identical decisions")
	assert.Equal(t, first.ID, second.ID)
}

func TestEvaluateDecisionIDIgnoresEvaluationTime(t *testing.T) {
	policy := activePolicy()
	obs := landedObservation(90)

	first := Evaluate(policy, obs, evalTime)
	second := Evaluate(policy, obs, evalTime.Add(48*time.Hour))
	assert.Equal(t, first.ID, second.ID, "replays must reproduce the decision ID")
}
