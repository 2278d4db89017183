// Package sensitivity measures how stable a ranking is under bounded
// perturbation of the criterion weights.
package sensitivity

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/civicworks/policyrank/internal/criteria"
	"github.com/civicworks/policyrank/internal/ranking"
)

// Defaults for the analyzer configuration.
const (
	DefaultTrials    = 200
	DefaultMagnitude = 0.20

	// minWeight keeps perturbed weights strictly positive.
	minWeight = 1e-9
)

// ErrNoEntries rejects an analysis over an empty policy set.
var ErrNoEntries = errors.New("sensitivity: no entries to analyze")

// Analyzer holds the trial configuration. The seed is an explicit input so
// results are reproducible: same seed and inputs, identical output.
type Analyzer struct {
	Trials    int
	Magnitude float64
	Seed      int64
	Pairwise  bool

	logger *slog.Logger
}

// New validates the configuration and returns an Analyzer.
func New(trials int, magnitude float64, seed int64, pairwise bool, logger *slog.Logger) (*Analyzer, error) {
	if trials <= 0 {
		return nil, &criteria.ValidationError{
			Field:      "trials",
			Constraint: fmt.Sprintf("must be > 0, got %d", trials),
		}
	}
	if magnitude <= 0 || magnitude >= 1 {
		return nil, &criteria.ValidationError{
			Field:      "magnitude",
			Constraint: fmt.Sprintf("must be in (0,1), got %g", magnitude),
		}
	}
	return &Analyzer{
		Trials:    trials,
		Magnitude: magnitude,
		Seed:      seed,
		Pairwise:  pairwise,
		logger:    logger,
	}, nil
}

// Result reports stability ratios over the configured trials.
type Result struct {
	BaselineTop      string             `json:"baseline_top"`
	TopRankStability float64            `json:"top_rank_stability"`
	Trials           int                `json:"trials"`
	Seed             int64              `json:"seed"`
	PerPairStability map[string]float64 `json:"per_pair_stability,omitempty"`
}

// PairKey names a policy pair for the per-pair stability map, with the
// identifiers in lexicographic order so the key is direction-independent.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ">" + b
}

// Run perturbs the baseline weights Trials times, re-ranks, and reports the
// fraction of trials preserving the baseline top policy and (optionally)
// each baseline pairwise order. Ratios are reported per pair and never
// aggregated across pairs.
func (an *Analyzer) Run(baseline criteria.Weights, entries []ranking.Entry) (Result, error) {
	if len(entries) == 0 {
		return Result{}, ErrNoEntries
	}

	baseRanked, err := ranking.Rank(entries, baseline)
	if err != nil {
		return Result{}, err
	}
	baseTop := baseRanked[0].PolicyID

	result := Result{
		BaselineTop: baseTop,
		Trials:      an.Trials,
		Seed:        an.Seed,
	}

	var pairPreserved map[string]int
	if an.Pairwise {
		pairPreserved = make(map[string]int)
	}

	rng := rand.New(rand.NewSource(an.Seed))
	topPreserved := 0
	for trial := 0; trial < an.Trials; trial++ {
		perturbed, err := an.perturb(baseline, rng)
		if err != nil {
			return Result{}, err
		}
		trialRanked, err := ranking.Rank(entries, perturbed)
		if err != nil {
			return Result{}, err
		}
		if trialRanked[0].PolicyID == baseTop {
			topPreserved++
		}
		if an.Pairwise {
			trialPos := positions(trialRanked)
			for i := 0; i < len(baseRanked); i++ {
				for j := i + 1; j < len(baseRanked); j++ {
					a, b := baseRanked[i].PolicyID, baseRanked[j].PolicyID
					// Baseline has a above b; preserved when the trial agrees.
					if trialPos[a] < trialPos[b] {
						pairPreserved[PairKey(a, b)]++
					}
				}
			}
		}
	}

	result.TopRankStability = float64(topPreserved) / float64(an.Trials)
	if an.Pairwise {
		result.PerPairStability = make(map[string]float64, len(pairPreserved))
		for i := 0; i < len(baseRanked); i++ {
			for j := i + 1; j < len(baseRanked); j++ {
				key := PairKey(baseRanked[i].PolicyID, baseRanked[j].PolicyID)
				result.PerPairStability[key] = float64(pairPreserved[key]) / float64(an.Trials)
			}
		}
	}

	if an.logger != nil {
		an.logger.Info("sensitivity analysis complete",
			"trials", an.Trials,
			"magnitude", an.Magnitude,
			"seed", an.Seed,
			"baseline_top", baseTop,
			"top_rank_stability", result.TopRankStability)
	}
	return result, nil
}

// perturb draws one independent multiplicative factor per weight, uniform
// in [1-magnitude, 1+magnitude], clamped to stay positive.
func (an *Analyzer) perturb(baseline criteria.Weights, rng *rand.Rand) (criteria.Weights, error) {
	values := baseline.Values()
	for i := range values {
		factor := 1 + an.Magnitude*(2*rng.Float64()-1)
		v := values[i] * factor
		if v < minWeight {
			v = minWeight
		}
		values[i] = v
	}
	return criteria.NewWeights(values[0], values[1], values[2], values[3], values[4])
}

func positions(ranked []ranking.Ranked) map[string]int {
	pos := make(map[string]int, len(ranked))
	for i, r := range ranked {
		pos[r.PolicyID] = i
	}
	return pos
}
