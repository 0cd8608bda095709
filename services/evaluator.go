// backend/services/evaluator.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aeroshield/oracle/backend/models"
)

// decisionNamespace seeds deterministic (v5) decision IDs so replaying a
// settlement request reproduces the decision byte for byte.
var decisionNamespace = uuid.MustParse("7c9a1e54-36d2-4a88-9f41-0b2d7c5e8a13")

// Evaluate computes the claim decision for one policy against one resolved
// observation. Pass obs == nil for the indeterminate (no reliable data)
// case. The function is pure: no I/O, no randomness, no clock reads — the
// caller supplies evaluatedAt — so identical inputs always yield an
// identical decision.
//
// Rules apply in priority order, first match wins:
//  1. policy not active            -> not eligible, POLICY_NOT_ACTIVE
//  2. no usable observation        -> indeterminate, FLIGHT_STATUS_UNAVAILABLE
//  3. cancelled or diverted        -> eligible (full payout), FLIGHT_DISRUPTED
//  4. landed/terminal arrival with
//     delay >= policy threshold    -> eligible (full payout), DELAY_THRESHOLD_MET
//  5. otherwise                    -> not eligible, DELAY_THRESHOLD_NOT_MET
func Evaluate(policy models.Policy, obs *models.FlightObservation, evaluatedAt time.Time) models.ClaimDecision {
	decision := models.ClaimDecision{
		PolicyID:    policy.ID,
		EvaluatedAt: evaluatedAt.UTC(),
	}

	switch {
	case policy.Status != models.PolicyActive:
		decision.Outcome = models.OutcomeNotEligible
		decision.Reason = models.ReasonPolicyNotActive

	case obs == nil || obs.Status == models.StatusUnknown:
		decision.Outcome = models.OutcomeIndeterminate
		decision.Reason = models.ReasonFlightStatusUnavailable

	case obs.Status == models.StatusCancelled || obs.Status == models.StatusDiverted:
		decision.Outcome = models.OutcomeEligible
		decision.Reason = models.ReasonFlightDisrupted
		decision.PayoutAmount = policy.CoverageAmount

	case hasTerminalArrival(obs) && obs.DelayMinutes >= policy.DelayThresholdMinutes:
		decision.Outcome = models.OutcomeEligible
		decision.Reason = models.ReasonDelayThresholdMet
		decision.PayoutAmount = policy.CoverageAmount

	default:
		decision.Outcome = models.OutcomeNotEligible
		decision.Reason = models.ReasonDelayThresholdNotMet
	}

	if obs != nil {
		decision.ObservedDelayMinutes = obs.DelayMinutes
		decision.SourceObservation = obs
	}
	decision.ID = decisionID(policy, decision)
	return decision
}

// hasTerminalArrival reports whether the observation carries an arrival the
// delay can be judged against: the flight landed, or is still flagged
// active but already has an actual/estimated arrival on record.
func hasTerminalArrival(obs *models.FlightObservation) bool {
	if obs.Status == models.StatusLanded {
		return true
	}
	return obs.Status == models.StatusActive && obs.ActualArrival != nil
}

// decisionID derives a v5 UUID from the decision-relevant inputs. The
// evaluation timestamp is deliberately excluded: re-running the same
// request must reproduce the same ID.
func decisionID(policy models.Policy, d models.ClaimDecision) string {
	fingerprint := fmt.Sprintf("%s|%s|%s|%d|%.8f",
		policy.ID, d.Outcome, d.Reason, d.ObservedDelayMinutes, d.PayoutAmount)
	return uuid.NewSHA1(decisionNamespace, []byte(fingerprint)).String()
}
