// backend/database/policy_store.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aeroshield/oracle/backend/models"
	"github.com/aeroshield/oracle/backend/services"
)

// PolicyStore is the MySQL-backed ledger collaborator: read-only access to
// the policies table plus the claim_decisions journal that makes
// settlement requests idempotent. See schema.sql for the tables.
type PolicyStore struct {
	db *sql.DB
}

// NewPolicyStore creates a PolicyStore over an initialized connection pool.
func NewPolicyStore(db *sql.DB) *PolicyStore {
	return &PolicyStore{db: db}
}

// GetPolicy fetches one policy by ID. Returns services.ErrPolicyNotFound
// when no row exists.
func (s *PolicyStore) GetPolicy(ctx context.Context, policyID string) (*models.Policy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, airline_code, flight_number, departure_date,
		       coverage_amount, premium_amount, delay_threshold_minutes, status
		FROM policies
		WHERE id = ?
	`, policyID)

	var p models.Policy
	err := row.Scan(
		&p.ID,
		&p.Flight.AirlineCode,
		&p.Flight.FlightNumber,
		&p.Flight.DepartureDate,
		&p.CoverageAmount,
		&p.PremiumAmount,
		&p.DelayThresholdMinutes,
		&p.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query policy %s: %w", policyID, err)
	}
	return &p, nil
}

// SubmitClaimDecision records a decision in the journal. The policy_id
// unique key means a replayed settlement request leaves the first recorded
// decision untouched; only the last-seen timestamp moves.
func (s *PolicyStore) SubmitClaimDecision(ctx context.Context, decision *models.ClaimDecision) error {
	var obsJSON []byte
	if decision.SourceObservation != nil {
		var err error
		obsJSON, err = json.Marshal(decision.SourceObservation)
		if err != nil {
			return fmt.Errorf("failed to marshal source observation: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO claim_decisions (
			id, policy_id, outcome, observed_delay_minutes, payout_amount,
			reason, evaluated_at, source_observation_json, first_submitted_at, last_submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			last_submitted_at = NOW()
	`,
		decision.ID,
		decision.PolicyID,
		string(decision.Outcome),
		decision.ObservedDelayMinutes,
		decision.PayoutAmount,
		string(decision.Reason),
		decision.EvaluatedAt,
		nullableString(obsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save claim decision for policy %s: %w", decision.PolicyID, err)
	}

	log.Printf("Ledger: recorded decision %s for policy %s (outcome=%s)\n",
		decision.ID, decision.PolicyID, decision.Outcome)
	return nil
}

// FindDecision looks up the journaled decision for a policy, if any.
// Returns (nil, nil) when the policy has never been settled.
func (s *PolicyStore) FindDecision(ctx context.Context, policyID string) (*models.ClaimDecision, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, policy_id, outcome, observed_delay_minutes, payout_amount,
		       reason, evaluated_at, source_observation_json
		FROM claim_decisions
		WHERE policy_id = ?
	`, policyID)

	var d models.ClaimDecision
	var obsJSON sql.NullString
	err := row.Scan(
		&d.ID,
		&d.PolicyID,
		&d.Outcome,
		&d.ObservedDelayMinutes,
		&d.PayoutAmount,
		&d.Reason,
		&d.EvaluatedAt,
		&obsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query decision for policy %s: %w", policyID, err)
	}

	if obsJSON.Valid && obsJSON.String != "" {
		var obs models.FlightObservation
		if unmarshalErr := json.Unmarshal([]byte(obsJSON.String), &obs); unmarshalErr != nil {
			log.Printf("WARN Ledger: could not unmarshal stored observation for policy %s: %v\n",
				policyID, unmarshalErr)
		} else {
			d.SourceObservation = &obs
		}
	}
	return &d, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
