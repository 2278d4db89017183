package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/civicworks/policyrank/internal/policy"
)

// MemoryStore is the in-process Store used when no database is configured,
// and by tests.
type MemoryStore struct {
	mu          sync.Mutex
	policies    []*policy.Policy
	assessments []policy.Assessment
	runs        []*RankingRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SavePolicy(_ context.Context, p *policy.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.policies {
		if existing.ID == p.ID {
			return fmt.Errorf("policy %s already stored", p.ID)
		}
	}
	s.policies = append(s.policies, p)
	return nil
}

func (s *MemoryStore) SaveAssessment(_ context.Context, a policy.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.policies {
		if p.ID == a.PolicyID {
			s.assessments = append(s.assessments, a)
			return nil
		}
	}
	return fmt.Errorf("assessment references unknown policy %s", a.PolicyID)
}

func (s *MemoryStore) LoadCollection(_ context.Context) (*policy.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := policy.NewCollection()
	for _, stored := range s.policies {
		p, err := policy.NewPolicy(stored.ID, stored.Name, stored.Category, stored.ImplementationYear)
		if err != nil {
			return nil, err
		}
		if err := col.Add(p); err != nil {
			return nil, err
		}
	}
	// assessments slice is already in insertion order
	for _, a := range s.assessments {
		p, ok := col.Get(a.PolicyID)
		if !ok {
			return nil, fmt.Errorf("stored assessment references unknown policy %s", a.PolicyID)
		}
		if err := p.AddAssessment(a); err != nil {
			return nil, err
		}
	}
	return col, nil
}

func (s *MemoryStore) SaveRankingRun(_ context.Context, run *RankingRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	s.runs = append(s.runs, run)
	return nil
}

func (s *MemoryStore) ListRankingRuns(_ context.Context, limit int) ([]*RankingRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*RankingRun, len(s.runs))
	copy(out, s.runs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RunAt.After(out[j].RunAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
