// backend/services/ledger.go
package services

import (
	"context"
	"errors"

	"github.com/aeroshield/oracle/backend/models"
)

// ErrPolicyNotFound is returned by a Ledger when no policy exists for the
// requested ID.
var ErrPolicyNotFound = errors.New("policy not found")

// Ledger is the external policy-ledger collaborator. This service reads
// policies from it and submits decisions to it; it never constructs the
// on-chain settlement transaction itself.
//
// FindDecision exposes the decision journal: once a terminal decision has
// been recorded for a policy it is replayed verbatim on later settlement
// requests, so a flight's status can never be re-evaluated to a different
// answer after it has been used to settle.
type Ledger interface {
	GetPolicy(ctx context.Context, policyID string) (*models.Policy, error)
	SubmitClaimDecision(ctx context.Context, decision *models.ClaimDecision) error
	FindDecision(ctx context.Context, policyID string) (*models.ClaimDecision, error)
}
