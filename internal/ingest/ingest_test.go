package ingest

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/civicworks/policyrank/internal/ahp"
	"github.com/civicworks/policyrank/internal/criteria"
)

const policiesCSV = `id,name,category,implementation_year
pol-1,Carbon Tax,environmental,2015
pol-2,Transit Expansion,infrastructure,2018
`

const assessmentsCSV = `policy_id,scope,magnitude,durability,adaptability,cross_referencing,assessor,assessment_date,data_sources,notes
pol-1,4,3,5,4,3,analyst-a,2024-06-01,national stats office,baseline review
pol-2,3,4,3,3,2,analyst-b,2024-06-02T09:30:00Z,,
`

func TestReadPolicies(t *testing.T) {
	col, err := ReadPolicies(strings.NewReader(policiesCSV))
	if err != nil {
		t.Fatalf("ReadPolicies failed: %v", err)
	}
	if col.Len() != 2 {
		t.Fatalf("expected 2 policies, got %d", col.Len())
	}
	p, ok := col.Get("pol-1")
	if !ok {
		t.Fatal("expected pol-1 present")
	}
	if p.Name != "Carbon Tax" || p.ImplementationYear != 2015 {
		t.Errorf("unexpected policy: %+v", p)
	}
}

func TestReadPoliciesErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			"bad header",
			"id,title,category,implementation_year\npol-1,x,economic,2020\n",
			"expected \"name\"",
		},
		{
			"unknown category",
			"id,name,category,implementation_year\npol-1,Tax,fiscal,2020\n",
			"row 2",
		},
		{
			"duplicate id",
			"id,name,category,implementation_year\npol-1,A,economic,2020\npol-1,B,economic,2021\n",
			"row 3",
		},
		{
			"bad year",
			"id,name,category,implementation_year\npol-1,A,economic,soon\n",
			"implementation_year",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPolicies(strings.NewReader(tt.csv))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestReadAssessments(t *testing.T) {
	col, err := ReadPolicies(strings.NewReader(policiesCSV))
	if err != nil {
		t.Fatalf("ReadPolicies failed: %v", err)
	}
	if err := ReadAssessments(strings.NewReader(assessmentsCSV), col, criteria.DefaultWeights()); err != nil {
		t.Fatalf("ReadAssessments failed: %v", err)
	}

	p, _ := col.Get("pol-1")
	latest, ok := p.LatestAssessment()
	if !ok {
		t.Fatal("expected an assessment on pol-1")
	}
	if latest.Assessor != "analyst-a" {
		t.Errorf("expected assessor analyst-a, got %s", latest.Assessor)
	}
	if latest.DataSources != "national stats office" {
		t.Errorf("unexpected data sources: %q", latest.DataSources)
	}
	if math.Abs(latest.OverallScore()-27.5/7.0) > 1e-9 {
		t.Errorf("unexpected overall score %f", latest.OverallScore())
	}
}

func TestReadAssessmentsErrors(t *testing.T) {
	header := "policy_id,scope,magnitude,durability,adaptability,cross_referencing,assessor,assessment_date,data_sources,notes\n"
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"unknown policy", "pol-9,3,3,3,3,3,a,2024-01-01,,", "unknown policy"},
		{"score out of range", "pol-1,7,3,3,3,3,a,2024-01-01,,", "scope"},
		{"non-integer score", "pol-1,3.5,3,3,3,3,a,2024-01-01,,", "scope"},
		{"bad date", "pol-1,3,3,3,3,3,a,yesterday,,", "assessment_date"},
		{"empty assessor", "pol-1,3,3,3,3,3,,2024-01-01,,", "assessor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := ReadPolicies(strings.NewReader(policiesCSV))
			if err != nil {
				t.Fatalf("ReadPolicies failed: %v", err)
			}
			err = ReadAssessments(strings.NewReader(header+tt.row+"\n"), col, criteria.DefaultWeights())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestWeightSourceLiterals(t *testing.T) {
	path := writeTemp(t, `
weights:
  scope: 1.0
  magnitude: 1.5
  durability: 2.0
  adaptability: 1.5
  cross_referencing: 1.0
`)
	ws, err := LoadWeightSource(path)
	if err != nil {
		t.Fatalf("LoadWeightSource failed: %v", err)
	}
	w, result, err := ws.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if result != nil {
		t.Error("expected no AHP result for literal weights")
	}
	if math.Abs(w.Total()-7.0) > 1e-9 {
		t.Errorf("expected total 7.0, got %f", w.Total())
	}
}

func TestWeightSourceJudgments(t *testing.T) {
	path := writeTemp(t, `
judgments:
  - {a: scope, b: magnitude, ratio: 2}
  - {a: magnitude, b: durability, ratio: 2}
  - {a: scope, b: durability, ratio: 4}
`)
	ws, err := LoadWeightSource(path)
	if err != nil {
		t.Fatalf("LoadWeightSource failed: %v", err)
	}
	w, result, err := ws.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected AHP result for judgment input")
	}
	if math.Abs(w.Total()-1.0) > 1e-9 {
		t.Errorf("AHP weights should be fractional, total %f", w.Total())
	}
}

func TestWeightSourceDefaultsWhenEmpty(t *testing.T) {
	ws := &WeightSource{}
	w, result, err := ws.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if result != nil {
		t.Error("expected no AHP result for defaults")
	}
	if math.Abs(w.Total()-7.0) > 1e-9 {
		t.Errorf("expected default total 7.0, got %f", w.Total())
	}
}

func TestWeightSourceRejectsBoth(t *testing.T) {
	ws := &WeightSource{
		Weights:   &WeightLiterals{Scope: 1, Magnitude: 1, Durability: 1, Adaptability: 1, CrossReferencing: 1},
		Judgments: []ahp.Judgment{{A: "scope", B: "magnitude", Ratio: 2}},
	}
	if _, _, err := ws.Resolve(); err == nil {
		t.Error("expected error when both weights and judgments are supplied")
	}
}
