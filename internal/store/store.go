// Package store persists policies, assessments and ranking-run history so
// repeated assessments over time can be compared. The engine itself never
// touches storage; the CLI loads inputs, runs the engine, and records the
// outcome here.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/civicworks/policyrank/internal/policy"
)

// RunEntry is one persisted ranking row.
type RunEntry struct {
	PolicyID     string  `json:"policy_id"`
	OverallScore float64 `json:"overall_score"`
	Rank         int     `json:"rank"`
}

// RankingRun records one ranking execution: when it ran, how the weights
// were obtained, and the resulting order.
type RankingRun struct {
	ID           uuid.UUID  `json:"id"`
	RunAt        time.Time  `json:"run_at"`
	WeightSource string     `json:"weight_source"`
	Seed         *int64     `json:"seed,omitempty"`
	Results      []RunEntry `json:"results"`
}

type Store interface {
	SavePolicy(ctx context.Context, p *policy.Policy) error
	SaveAssessment(ctx context.Context, a policy.Assessment) error

	// LoadCollection rebuilds the full policy collection, assessments in
	// original insertion order.
	LoadCollection(ctx context.Context) (*policy.Collection, error)

	SaveRankingRun(ctx context.Context, run *RankingRun) error
	ListRankingRuns(ctx context.Context, limit int) ([]*RankingRun, error)

	Close() error
}
