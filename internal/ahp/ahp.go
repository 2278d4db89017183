// Package ahp derives criterion weights from pairwise importance judgments
// using the classical Analytic Hierarchy Process: reciprocal comparison
// matrix, geometric-mean priority vector, consistency ratio diagnostic.
package ahp

import (
	"fmt"
	"math"

	"github.com/civicworks/policyrank/internal/criteria"
)

const (
	// RandomIndex is Saaty's published random consistency index for n=5.
	RandomIndex = 1.12

	// ConsistencyThreshold is the CR level at and above which a judgment
	// set is flagged inconsistent. The flag is advisory: callers get the
	// derived priorities either way and decide whether to re-elicit.
	ConsistencyThreshold = 0.10
)

// Judgment expresses "criterion A is Ratio times more important than
// criterion B". Criterion names use the canonical snake_case forms.
type Judgment struct {
	A     string  `yaml:"a" json:"a"`
	B     string  `yaml:"b" json:"b"`
	Ratio float64 `yaml:"ratio" json:"ratio"`
}

// Result is the solved priority vector plus the consistency diagnostic.
type Result struct {
	Priorities [criteria.NumCriteria]float64 `json:"priority_vector"`
	LambdaMax  float64                       `json:"lambda_max"`
	CI         float64                       `json:"consistency_index"`
	CR         float64                       `json:"consistency_ratio"`
	Consistent bool                          `json:"consistent"`
}

// Weights converts the priority vector into a weight set.
func (r Result) Weights() (criteria.Weights, error) {
	return criteria.FromPriorities(r.Priorities)
}

// Derive builds the comparison matrix from the (possibly sparse) judgments
// and solves it. Unjudged pairs default to ratio 1, so "no stated preference"
// is modeled as equal importance. A later judgment for an already-judged
// pair overrides the earlier one.
func Derive(judgments []Judgment) (Result, error) {
	m, err := buildMatrix(judgments)
	if err != nil {
		return Result{}, err
	}
	return solve(m), nil
}

// buildMatrix enforces the reciprocal structure at insertion: diagonal 1,
// M[j][i] = 1/M[i][j].
func buildMatrix(judgments []Judgment) ([criteria.NumCriteria][criteria.NumCriteria]float64, error) {
	var m [criteria.NumCriteria][criteria.NumCriteria]float64
	for i := range m {
		for j := range m[i] {
			m[i][j] = 1
		}
	}

	for _, j := range judgments {
		a, err := criteria.Parse(j.A)
		if err != nil {
			return m, err
		}
		b, err := criteria.Parse(j.B)
		if err != nil {
			return m, err
		}
		if a == b {
			return m, &criteria.ValidationError{
				Field:      "judgment",
				Constraint: "cannot compare criterion " + j.A + " with itself",
			}
		}
		if j.Ratio <= 0 {
			return m, &criteria.ValidationError{
				Field:      "ratio",
				Constraint: fmt.Sprintf("must be > 0, got %g (%s vs %s)", j.Ratio, j.A, j.B),
			}
		}
		m[a][b] = j.Ratio
		m[b][a] = 1 / j.Ratio
	}
	return m, nil
}

// solve derives priorities by normalized geometric means of the rows, then
// computes lambda_max, CI and CR for n=5.
func solve(m [criteria.NumCriteria][criteria.NumCriteria]float64) Result {
	n := float64(criteria.NumCriteria)

	var geoMeans [criteria.NumCriteria]float64
	var sum float64
	for i := range m {
		product := 1.0
		for _, v := range m[i] {
			product *= v
		}
		geoMeans[i] = math.Pow(product, 1/n)
		sum += geoMeans[i]
	}

	var result Result
	for i := range geoMeans {
		result.Priorities[i] = geoMeans[i] / sum
	}

	// lambda_max: average of (M * w) component-wise divided by w.
	var lambda float64
	for i := range m {
		var row float64
		for j := range m[i] {
			row += m[i][j] * result.Priorities[j]
		}
		lambda += row / result.Priorities[i]
	}
	result.LambdaMax = lambda / n
	result.CI = (result.LambdaMax - n) / (n - 1)
	result.CR = result.CI / RandomIndex
	result.Consistent = result.CR < ConsistencyThreshold
	return result
}
