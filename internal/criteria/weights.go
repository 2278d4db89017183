package criteria

import "fmt"

// Weights defines the relative importance of each criterion. All weights
// must be strictly positive; scale is free since scoring divides by the
// total. Construct via NewWeights, DefaultWeights or FromPriorities.
type Weights struct {
	values [NumCriteria]float64
}

// DefaultWeights returns the stock weight distribution as a fresh value on
// every call.
func DefaultWeights() Weights {
	return Weights{values: [NumCriteria]float64{1.0, 1.5, 2.0, 1.5, 1.0}}
}

// NewWeights validates that every weight is strictly positive.
func NewWeights(scope, magnitude, durability, adaptability, crossReferencing float64) (Weights, error) {
	values := [NumCriteria]float64{scope, magnitude, durability, adaptability, crossReferencing}
	for i, v := range values {
		if v <= 0 {
			return Weights{}, &ValidationError{
				Field:      Criterion(i).String() + "_weight",
				Constraint: fmt.Sprintf("must be > 0, got %g", v),
			}
		}
	}
	return Weights{values: values}, nil
}

// FromPriorities builds Weights from an AHP priority vector. The vector is
// kept fractional (summing to 1); scoring normalizes by the total, so the
// scale difference from literal weights is immaterial.
func FromPriorities(priorities [NumCriteria]float64) (Weights, error) {
	return NewWeights(priorities[0], priorities[1], priorities[2], priorities[3], priorities[4])
}

// Weight returns the weight for a single criterion.
func (w Weights) Weight(c Criterion) float64 {
	return w.values[c]
}

// Values returns the five weights in canonical criterion order.
func (w Weights) Values() [NumCriteria]float64 {
	return w.values
}

// Total is the sum of all five weights, recomputed on every call so it can
// never go stale.
func (w Weights) Total() float64 {
	var total float64
	for _, v := range w.values {
		total += v
	}
	return total
}
