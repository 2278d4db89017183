// Package report renders engine results as the plain structured records the
// boundary promises: JSON for machine consumers, markdown for review.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/civicworks/policyrank/internal/ahp"
	"github.com/civicworks/policyrank/internal/criteria"
	"github.com/civicworks/policyrank/internal/ranking"
	"github.com/civicworks/policyrank/internal/sensitivity"
)

// RankedEntry is one output ranking row. OverallScore carries the 2-decimal
// reporting convention.
type RankedEntry struct {
	PolicyID     string  `json:"policy_id"`
	OverallScore float64 `json:"overall_score"`
	Rank         int     `json:"rank"`
}

// Ranking is the ranking output record.
type Ranking struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	WeightSource string        `json:"weight_source"`
	Entries      []RankedEntry `json:"rankings"`
}

// NewRanking converts aggregator output, applying the 2-decimal rounding.
func NewRanking(ranked []ranking.Ranked, weightSource string, generatedAt time.Time) Ranking {
	entries := make([]RankedEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = RankedEntry{
			PolicyID:     r.PolicyID,
			OverallScore: ranking.Round2(r.Score),
			Rank:         r.Rank,
		}
	}
	return Ranking{GeneratedAt: generatedAt, WeightSource: weightSource, Entries: entries}
}

// WriteJSON writes the ranking as indented JSON.
func (r Ranking) WriteJSON(w io.Writer) error {
	return writeJSON(w, r)
}

// WriteMarkdown writes the ranking as a markdown table.
func (r Ranking) WriteMarkdown(w io.Writer) error {
	var b strings.Builder
	b.WriteString("# Policy Ranking\n\n")
	fmt.Fprintf(&b, "Generated: %s  \nWeights: %s\n\n", r.GeneratedAt.Format(time.RFC3339), r.WeightSource)
	b.WriteString("| Rank | Policy | Overall Score |\n")
	b.WriteString("|------|--------|---------------|\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "| %d | %s | %.2f |\n", e.Rank, e.PolicyID, e.OverallScore)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// AHPDiagnostic is the AHP output record.
type AHPDiagnostic struct {
	PriorityVector   map[string]float64 `json:"priority_vector"`
	LambdaMax        float64            `json:"lambda_max"`
	ConsistencyRatio float64            `json:"consistency_ratio"`
	Consistent       bool               `json:"consistent"`
}

// NewAHPDiagnostic keys the priority vector by criterion name.
func NewAHPDiagnostic(result ahp.Result) AHPDiagnostic {
	vector := make(map[string]float64, criteria.NumCriteria)
	for i, c := range criteria.All() {
		vector[c.String()] = result.Priorities[i]
	}
	return AHPDiagnostic{
		PriorityVector:   vector,
		LambdaMax:        result.LambdaMax,
		ConsistencyRatio: result.CR,
		Consistent:       result.Consistent,
	}
}

// WriteJSON writes the diagnostic as indented JSON.
func (d AHPDiagnostic) WriteJSON(w io.Writer) error {
	return writeJSON(w, d)
}

// WriteMarkdown writes the diagnostic with a consistency verdict line.
func (d AHPDiagnostic) WriteMarkdown(w io.Writer) error {
	var b strings.Builder
	b.WriteString("# AHP Weight Derivation\n\n")
	b.WriteString("| Criterion | Priority |\n")
	b.WriteString("|-----------|----------|\n")
	for _, c := range criteria.All() {
		fmt.Fprintf(&b, "| %s | %.4f |\n", c.String(), d.PriorityVector[c.String()])
	}
	verdict := "consistent"
	if !d.Consistent {
		verdict = "INCONSISTENT, consider re-eliciting judgments"
	}
	fmt.Fprintf(&b, "\nConsistency ratio: %.4f (%s)\n", d.ConsistencyRatio, verdict)
	_, err := io.WriteString(w, b.String())
	return err
}

// Sensitivity is the sensitivity output record.
type Sensitivity struct {
	BaselineTop      string             `json:"baseline_top"`
	TopRankStability float64            `json:"top_rank_stability"`
	Trials           int                `json:"trials"`
	Seed             int64              `json:"seed"`
	PerPairStability map[string]float64 `json:"per_pair_stability,omitempty"`
}

// NewSensitivity wraps an analyzer result.
func NewSensitivity(result sensitivity.Result) Sensitivity {
	return Sensitivity{
		BaselineTop:      result.BaselineTop,
		TopRankStability: result.TopRankStability,
		Trials:           result.Trials,
		Seed:             result.Seed,
		PerPairStability: result.PerPairStability,
	}
}

// WriteJSON writes the report as indented JSON.
func (s Sensitivity) WriteJSON(w io.Writer) error {
	return writeJSON(w, s)
}

// WriteMarkdown writes the stability summary, pairs sorted by key for
// stable output.
func (s Sensitivity) WriteMarkdown(w io.Writer) error {
	var b strings.Builder
	b.WriteString("# Ranking Sensitivity\n\n")
	fmt.Fprintf(&b, "Trials: %d (seed %d)  \n", s.Trials, s.Seed)
	fmt.Fprintf(&b, "Baseline top policy: %s  \n", s.BaselineTop)
	fmt.Fprintf(&b, "Top-rank stability: %.3f\n", s.TopRankStability)
	if len(s.PerPairStability) > 0 {
		b.WriteString("\n| Pair | Stability |\n")
		b.WriteString("|------|-----------|\n")
		keys := make([]string, 0, len(s.PerPairStability))
		for k := range s.PerPairStability {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "| %s | %.3f |\n", k, s.PerPairStability[k])
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
