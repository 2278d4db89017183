package policy

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civicworks/policyrank/internal/criteria"
)

// Category is the closed enumeration of policy domains.
type Category string

const (
	CategoryEconomic       Category = "economic"
	CategoryEnvironmental  Category = "environmental"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryInfrastructure Category = "infrastructure"
	CategorySocialWelfare  Category = "social_welfare"
)

// Categories returns all recognized policy categories.
func Categories() []Category {
	return []Category{
		CategoryEconomic, CategoryEnvironmental, CategoryHealthcare,
		CategoryEducation, CategoryInfrastructure, CategorySocialWelfare,
	}
}

// ParseCategory rejects unrecognized category names instead of letting them
// pass as free-form strings.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", &criteria.ValidationError{
		Field:      "category",
		Constraint: "unknown policy category " + name,
	}
}

// Assessment pairs one criteria score with the weights in force when it was
// recorded, plus provenance. Immutable after construction.
type Assessment struct {
	ID          uuid.UUID        `json:"id"`
	PolicyID    string           `json:"policy_id"`
	Score       criteria.Score   `json:"-"`
	Weights     criteria.Weights `json:"-"`
	AssessedAt  time.Time        `json:"assessed_at"`
	Assessor    string           `json:"assessor"`
	DataSources string           `json:"data_sources,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// NewAssessment builds an Assessment with a fresh ID. Score and weight
// invariants are already enforced by their constructors; this only checks
// the identity fields.
func NewAssessment(policyID, assessor string, assessedAt time.Time, score criteria.Score, weights criteria.Weights) (Assessment, error) {
	if policyID == "" {
		return Assessment{}, &criteria.ValidationError{Field: "policy_id", Constraint: "must not be empty"}
	}
	if assessor == "" {
		return Assessment{}, &criteria.ValidationError{Field: "assessor", Constraint: "must not be empty"}
	}
	return Assessment{
		ID:         uuid.New(),
		PolicyID:   policyID,
		Score:      score,
		Weights:    weights,
		AssessedAt: assessedAt,
		Assessor:   assessor,
	}, nil
}

// OverallScore is the weighted arithmetic mean of the five criterion values
// under the attached weights. Recomputed on every call, never cached.
func (a Assessment) OverallScore() float64 {
	var weighted float64
	for _, c := range criteria.All() {
		weighted += float64(a.Score.Value(c)) * a.Weights.Weight(c)
	}
	return weighted / a.Weights.Total()
}

// Policy is one policy entity with its assessment history in insertion order.
type Policy struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Category           Category `json:"category"`
	ImplementationYear int      `json:"implementation_year"`

	assessments []Assessment
}

// NewPolicy validates identity fields and the category.
func NewPolicy(id, name string, category Category, implementationYear int) (*Policy, error) {
	if id == "" {
		return nil, &criteria.ValidationError{Field: "id", Constraint: "must not be empty"}
	}
	if name == "" {
		return nil, &criteria.ValidationError{Field: "name", Constraint: "must not be empty"}
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}
	if implementationYear <= 0 {
		return nil, &criteria.ValidationError{
			Field:      "implementation_year",
			Constraint: fmt.Sprintf("must be a positive year, got %d", implementationYear),
		}
	}
	return &Policy{ID: id, Name: name, Category: category, ImplementationYear: implementationYear}, nil
}

// AddAssessment appends an assessment for this policy. Re-assessment over
// time is expected; history only grows.
func (p *Policy) AddAssessment(a Assessment) error {
	if a.PolicyID != p.ID {
		return &criteria.ValidationError{
			Field:      "policy_id",
			Constraint: fmt.Sprintf("assessment is for %q, policy is %q", a.PolicyID, p.ID),
		}
	}
	p.assessments = append(p.assessments, a)
	return nil
}

// Assessments returns the history in insertion order.
func (p *Policy) Assessments() []Assessment {
	out := make([]Assessment, len(p.assessments))
	copy(out, p.assessments)
	return out
}

// LatestAssessment returns the assessment with the maximum assessed-at time.
// Ties go to the later insertion. Second return is false when no assessment
// has been recorded.
func (p *Policy) LatestAssessment() (Assessment, bool) {
	if len(p.assessments) == 0 {
		return Assessment{}, false
	}
	latest := p.assessments[0]
	for _, a := range p.assessments[1:] {
		if !a.AssessedAt.Before(latest.AssessedAt) {
			latest = a
		}
	}
	return latest, true
}

// YearsSinceImplementation derives the policy age from the given reference
// time.
func (p *Policy) YearsSinceImplementation(now time.Time) int {
	years := now.Year() - p.ImplementationYear
	if years < 0 {
		return 0
	}
	return years
}

// Collection holds policies in insertion order with unique identifiers.
// It is mutated only by Add and never shrinks.
type Collection struct {
	policies []*Policy
	byID     map[string]*Policy
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{byID: make(map[string]*Policy)}
}

// Add rejects duplicate policy identifiers.
func (c *Collection) Add(p *Policy) error {
	if _, exists := c.byID[p.ID]; exists {
		return &criteria.ValidationError{
			Field:      "id",
			Constraint: "duplicate policy identifier " + p.ID,
		}
	}
	c.policies = append(c.policies, p)
	c.byID[p.ID] = p
	return nil
}

// Get looks a policy up by identifier.
func (c *Collection) Get(id string) (*Policy, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of policies.
func (c *Collection) Len() int {
	return len(c.policies)
}

// All returns the policies in insertion order.
func (c *Collection) All() []*Policy {
	out := make([]*Policy, len(c.policies))
	copy(out, c.policies)
	return out
}

// ByCategory returns the policies of one category, insertion order preserved.
func (c *Collection) ByCategory(cat Category) []*Policy {
	var out []*Policy
	for _, p := range c.policies {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// CategoryCounts reports how many policies each category holds.
func (c *Collection) CategoryCounts() map[Category]int {
	counts := make(map[Category]int)
	for _, p := range c.policies {
		counts[p.Category]++
	}
	return counts
}
