package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicworks/policyrank/internal/criteria"
	"github.com/civicworks/policyrank/internal/policy"
)

// PostgresStore persists to the schema in scripts/schema.sql.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SavePolicy(ctx context.Context, p *policy.Policy) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO policies (id, name, category, implementation_year)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, string(p.Category), p.ImplementationYear)
	return err
}

func (s *PostgresStore) SaveAssessment(ctx context.Context, a policy.Assessment) error {
	weightsJSON, err := json.Marshal(weightsMap(a.Weights))
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	values := a.Score.Values()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO assessments (id, policy_id, scope, magnitude, durability,
			adaptability, cross_referencing, weights, assessed_at, assessor,
			data_sources, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.PolicyID, values[0], values[1], values[2], values[3], values[4],
		weightsJSON, a.AssessedAt, a.Assessor, a.DataSources, a.Notes)
	return err
}

func (s *PostgresStore) LoadCollection(ctx context.Context) (*policy.Collection, error) {
	col := policy.NewCollection()

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category, implementation_year
		FROM policies ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, name, category string
		var year int
		if err := rows.Scan(&id, &name, &category, &year); err != nil {
			return nil, err
		}
		p, err := policy.NewPolicy(id, name, policy.Category(category), year)
		if err != nil {
			return nil, fmt.Errorf("stored policy %s: %w", id, err)
		}
		if err := col.Add(p); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// seq preserves original insertion order, which latest-assessment
	// tie-breaking depends on.
	arows, err := s.pool.Query(ctx, `
		SELECT id, policy_id, scope, magnitude, durability, adaptability,
			cross_referencing, weights, assessed_at, assessor, data_sources, notes
		FROM assessments ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a policy.Assessment
		var values [criteria.NumCriteria]int
		var weightsJSON []byte
		var dataSources, notes sql.NullString
		if err := arows.Scan(
			&a.ID, &a.PolicyID, &values[0], &values[1], &values[2], &values[3],
			&values[4], &weightsJSON, &a.AssessedAt, &a.Assessor, &dataSources, &notes,
		); err != nil {
			return nil, err
		}
		score, err := criteria.NewScore(values[0], values[1], values[2], values[3], values[4])
		if err != nil {
			return nil, fmt.Errorf("stored assessment %s: %w", a.ID, err)
		}
		a.Score = score
		a.Weights, err = weightsFromJSON(weightsJSON)
		if err != nil {
			return nil, fmt.Errorf("stored assessment %s: %w", a.ID, err)
		}
		if dataSources.Valid {
			a.DataSources = dataSources.String
		}
		if notes.Valid {
			a.Notes = notes.String
		}

		p, ok := col.Get(a.PolicyID)
		if !ok {
			return nil, fmt.Errorf("stored assessment %s references unknown policy %s", a.ID, a.PolicyID)
		}
		if err := p.AddAssessment(a); err != nil {
			return nil, err
		}
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}
	return col, nil
}

func (s *PostgresStore) SaveRankingRun(ctx context.Context, run *RankingRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO ranking_runs (id, weight_source, seed, results)
		VALUES ($1, $2, $3, $4)
		RETURNING run_at`,
		run.ID, run.WeightSource, run.Seed, resultsJSON,
	).Scan(&run.RunAt)
}

func (s *PostgresStore) ListRankingRuns(ctx context.Context, limit int) ([]*RankingRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, run_at, weight_source, seed, results
		FROM ranking_runs ORDER BY run_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*RankingRun
	for rows.Next() {
		run := &RankingRun{}
		var resultsJSON []byte
		if err := rows.Scan(&run.ID, &run.RunAt, &run.WeightSource, &run.Seed, &resultsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
			return nil, fmt.Errorf("unmarshal run %s results: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func weightsMap(w criteria.Weights) map[string]float64 {
	m := make(map[string]float64, criteria.NumCriteria)
	for _, c := range criteria.All() {
		m[c.String()] = w.Weight(c)
	}
	return m
}

func weightsFromJSON(data []byte) (criteria.Weights, error) {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return criteria.Weights{}, err
	}
	var values [criteria.NumCriteria]float64
	for i, c := range criteria.All() {
		values[i] = m[c.String()]
	}
	return criteria.NewWeights(values[0], values[1], values[2], values[3], values[4])
}
