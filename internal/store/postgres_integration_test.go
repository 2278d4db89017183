//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/civicworks/policyrank/internal/criteria"
	"github.com/civicworks/policyrank/internal/policy"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		// Truncate in dependency order
		_, _ = s.pool.Exec(ctx, "TRUNCATE ranking_runs CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE assessments CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE policies CASCADE")
		s.Close()
	})

	return s
}

func TestPostgresCollectionRoundTrip(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	p, err := policy.NewPolicy("pol-1", "Carbon Tax", policy.CategoryEnvironmental, 2015)
	if err != nil {
		t.Fatalf("NewPolicy failed: %v", err)
	}
	if err := s.SavePolicy(ctx, p); err != nil {
		t.Fatalf("SavePolicy failed: %v", err)
	}

	score, _ := criteria.NewScore(4, 3, 5, 4, 3)
	a, err := policy.NewAssessment("pol-1", "analyst-a",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), score, criteria.DefaultWeights())
	if err != nil {
		t.Fatalf("NewAssessment failed: %v", err)
	}
	a.DataSources = "national stats office"
	if err := s.SaveAssessment(ctx, a); err != nil {
		t.Fatalf("SaveAssessment failed: %v", err)
	}

	col, err := s.LoadCollection(ctx)
	if err != nil {
		t.Fatalf("LoadCollection failed: %v", err)
	}
	loaded, ok := col.Get("pol-1")
	if !ok {
		t.Fatal("expected pol-1 in loaded collection")
	}
	latest, ok := loaded.LatestAssessment()
	if !ok {
		t.Fatal("expected assessment loaded")
	}
	if latest.ID != a.ID {
		t.Errorf("expected assessment %v, got %v", a.ID, latest.ID)
	}
	if latest.Score.Value(criteria.Durability) != 5 {
		t.Errorf("score not round-tripped: %v", latest.Score.Values())
	}
	if latest.Weights.Total() != criteria.DefaultWeights().Total() {
		t.Errorf("weights not round-tripped: total %f", latest.Weights.Total())
	}
	if latest.DataSources != "national stats office" {
		t.Errorf("data sources not round-tripped: %q", latest.DataSources)
	}
}

func TestPostgresRankingRuns(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	seed := int64(42)
	run := &RankingRun{
		WeightSource: "ahp",
		Seed:         &seed,
		Results: []RunEntry{
			{PolicyID: "pol-1", OverallScore: 3.93, Rank: 1},
			{PolicyID: "pol-2", OverallScore: 3.14, Rank: 2},
		},
	}
	if err := s.SaveRankingRun(ctx, run); err != nil {
		t.Fatalf("SaveRankingRun failed: %v", err)
	}
	if run.RunAt.IsZero() {
		t.Error("expected run_at populated on save")
	}

	runs, err := s.ListRankingRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRankingRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.WeightSource != "ahp" {
		t.Errorf("run not round-tripped: %+v", got)
	}
	if got.Seed == nil || *got.Seed != 42 {
		t.Errorf("seed not round-tripped: %v", got.Seed)
	}
	if len(got.Results) != 2 || got.Results[0].PolicyID != "pol-1" {
		t.Errorf("results not round-tripped: %+v", got.Results)
	}
}
