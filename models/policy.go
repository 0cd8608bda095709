// backend/models/policy.go
package models

// PolicyStatus mirrors the lifecycle states held by the policy ledger.
type PolicyStatus string

const (
	PolicyActive    PolicyStatus = "active"
	PolicyClaimed   PolicyStatus = "claimed"
	PolicyRejected  PolicyStatus = "rejected"
	PolicyExpired   PolicyStatus = "expired"
	PolicyCancelled PolicyStatus = "cancelled"
)

// Policy is a flight-delay insurance policy as read from the ledger
// collaborator. This service never mutates policies; it only reads them to
// evaluate claims.
type Policy struct {
	ID                   string           `json:"id" db:"id"`
	Flight               FlightIdentifier `json:"flight"`
	CoverageAmount       float64          `json:"coverageAmount" db:"coverage_amount"`
	PremiumAmount        float64          `json:"premiumAmount" db:"premium_amount"`
	DelayThresholdMinutes int             `json:"delayThresholdMinutes" db:"delay_threshold_minutes"`
	Status               PolicyStatus     `json:"status" db:"status"`
}
