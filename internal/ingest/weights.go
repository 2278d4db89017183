package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/civicworks/policyrank/internal/ahp"
	"github.com/civicworks/policyrank/internal/criteria"
)

// WeightSource is the yaml weighting input: either five literal weights or
// a sparse judgment list for AHP derivation, never both.
type WeightSource struct {
	Weights   *WeightLiterals `yaml:"weights"`
	Judgments []ahp.Judgment  `yaml:"judgments"`
}

type WeightLiterals struct {
	Scope            float64 `yaml:"scope"`
	Magnitude        float64 `yaml:"magnitude"`
	Durability       float64 `yaml:"durability"`
	Adaptability     float64 `yaml:"adaptability"`
	CrossReferencing float64 `yaml:"cross_referencing"`
}

// LoadWeightSource reads the yaml weighting file at path.
func LoadWeightSource(path string) (*WeightSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	var ws WeightSource
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}
	return &ws, nil
}

// Resolve produces the weight set. When judgments are supplied the AHP
// result is returned alongside so the caller can surface the consistency
// diagnostic; for literal or default weights it is nil.
func (ws *WeightSource) Resolve() (criteria.Weights, *ahp.Result, error) {
	switch {
	case ws.Weights != nil && len(ws.Judgments) > 0:
		return criteria.Weights{}, nil, fmt.Errorf("weights: supply literal weights or judgments, not both")
	case len(ws.Judgments) > 0:
		result, err := ahp.Derive(ws.Judgments)
		if err != nil {
			return criteria.Weights{}, nil, err
		}
		w, err := result.Weights()
		if err != nil {
			return criteria.Weights{}, nil, err
		}
		return w, &result, nil
	case ws.Weights != nil:
		w, err := criteria.NewWeights(
			ws.Weights.Scope, ws.Weights.Magnitude, ws.Weights.Durability,
			ws.Weights.Adaptability, ws.Weights.CrossReferencing)
		if err != nil {
			return criteria.Weights{}, nil, err
		}
		return w, nil, nil
	default:
		return criteria.DefaultWeights(), nil, nil
	}
}
