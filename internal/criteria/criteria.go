package criteria

// Criterion identifies one of the five fixed assessment dimensions.
// Values index into [NumCriteria]-sized arrays, so every score and weight
// set always carries all five.
type Criterion int

const (
	Scope Criterion = iota
	Magnitude
	Durability
	Adaptability
	CrossReferencing

	NumCriteria = 5
)

var criterionNames = [NumCriteria]string{
	"scope", "magnitude", "durability", "adaptability", "cross_referencing",
}

// String returns the canonical snake_case name of the criterion.
func (c Criterion) String() string {
	if c < 0 || c >= NumCriteria {
		return "unknown"
	}
	return criterionNames[c]
}

// All returns the five criteria in canonical order.
func All() [NumCriteria]Criterion {
	return [NumCriteria]Criterion{Scope, Magnitude, Durability, Adaptability, CrossReferencing}
}

// Parse maps a criterion name to its Criterion value. Unknown names are
// rejected with a ValidationError rather than matched loosely.
func Parse(name string) (Criterion, error) {
	for i, n := range criterionNames {
		if n == name {
			return Criterion(i), nil
		}
	}
	return 0, &ValidationError{
		Field:      "criterion",
		Constraint: "must be one of scope, magnitude, durability, adaptability, cross_referencing; got " + name,
	}
}
