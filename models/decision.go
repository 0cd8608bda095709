// backend/models/decision.go
package models

import "time"

// Outcome is the claim-eligibility verdict for one settlement request.
type Outcome string

const (
	OutcomeEligible      Outcome = "eligible"
	OutcomeNotEligible   Outcome = "not_eligible"
	OutcomeIndeterminate Outcome = "indeterminate"
)

// ReasonCode explains why an outcome was reached. Exactly one reason is
// attached to every decision.
type ReasonCode string

const (
	ReasonPolicyNotActive         ReasonCode = "POLICY_NOT_ACTIVE"
	ReasonFlightStatusUnavailable ReasonCode = "FLIGHT_STATUS_UNAVAILABLE"
	ReasonFlightDisrupted         ReasonCode = "FLIGHT_DISRUPTED"
	ReasonDelayThresholdMet       ReasonCode = "DELAY_THRESHOLD_MET"
	ReasonDelayThresholdNotMet    ReasonCode = "DELAY_THRESHOLD_NOT_MET"
)

// Terminal reports whether the outcome is a definite verdict rather than a
// retry signal. Indeterminate is never terminal: the pipeline is expected
// to retry once provider data becomes available.
func (o Outcome) Terminal() bool {
	return o == OutcomeEligible || o == OutcomeNotEligible
}

// ClaimDecision is the deterministic result of evaluating one policy
// against one flight observation. Given identical inputs the evaluator
// always produces an identical decision, which is what makes settlement
// requests safe to replay.
type ClaimDecision struct {
	ID                   string             `json:"id" db:"id"`
	PolicyID             string             `json:"policyId" db:"policy_id"`
	Outcome              Outcome            `json:"outcome" db:"outcome"`
	ObservedDelayMinutes int                `json:"observedDelayMinutes" db:"observed_delay_minutes"`
	PayoutAmount         float64            `json:"payoutAmount" db:"payout_amount"`
	Reason               ReasonCode         `json:"reason" db:"reason"`
	EvaluatedAt          time.Time          `json:"evaluatedAt" db:"evaluated_at"`
	SourceObservation    *FlightObservation `json:"sourceObservation,omitempty"`
}

// Final reports whether a decision may be journaled and replayed verbatim
// for later settlement requests. Eligible verdicts and inactive-policy
// rejections are final. A below-threshold rejection is final only once the
// underlying flight has concluded: a flight evaluated before arrival can
// still go on to cross the threshold, so that verdict must stay open to
// re-evaluation.
func (d ClaimDecision) Final() bool {
	if !d.Outcome.Terminal() {
		return false
	}
	if d.Reason == ReasonDelayThresholdNotMet {
		return d.SourceObservation.Concluded()
	}
	return true
}
