package criteria

import "fmt"

// MinScore and MaxScore bound every criterion value.
const (
	MinScore = 1
	MaxScore = 5
)

// Score holds the five integer criterion values for one assessment.
// Construct via NewScore; a zero Score is invalid. Immutable once built.
type Score struct {
	values [NumCriteria]int
}

// NewScore validates each value against [MinScore, MaxScore]. Out-of-range
// values are rejected, never clamped.
func NewScore(scope, magnitude, durability, adaptability, crossReferencing int) (Score, error) {
	values := [NumCriteria]int{scope, magnitude, durability, adaptability, crossReferencing}
	for i, v := range values {
		if v < MinScore || v > MaxScore {
			return Score{}, &ValidationError{
				Field:      Criterion(i).String(),
				Constraint: fmt.Sprintf("must be an integer in [%d,%d], got %d", MinScore, MaxScore, v),
			}
		}
	}
	return Score{values: values}, nil
}

// Value returns the score for a single criterion.
func (s Score) Value(c Criterion) int {
	return s.values[c]
}

// Values returns the five values in canonical criterion order.
func (s Score) Values() [NumCriteria]int {
	return s.values
}
