package ranking

import (
	"errors"
	"log/slog"
	"math"
	"sort"

	"github.com/civicworks/policyrank/internal/criteria"
	"github.com/civicworks/policyrank/internal/policy"
)

// ErrZeroTotalWeight guards the division in Overall. Unreachable while the
// weight invariant holds, but the aggregator refuses to divide regardless.
var ErrZeroTotalWeight = errors.New("ranking: total weight is zero")

// Entry is one policy's criteria score, ready for aggregation.
type Entry struct {
	PolicyID string
	Score    criteria.Score
}

// Ranked is one row of a ranking. Score is unrounded; Round2 applies the
// 2-decimal reporting convention.
type Ranked struct {
	PolicyID string  `json:"policy_id"`
	Score    float64 `json:"overall_score"`
	Rank     int     `json:"rank"`
}

// Overall computes the weighted arithmetic mean of the five criterion
// values. Pure function of its inputs.
func Overall(s criteria.Score, w criteria.Weights) (float64, error) {
	total := w.Total()
	if total == 0 {
		return 0, ErrZeroTotalWeight
	}
	var weighted float64
	for _, c := range criteria.All() {
		weighted += float64(s.Value(c)) * w.Weight(c)
	}
	return weighted / total, nil
}

// Round2 rounds a score to two decimals for reporting.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rank scores every entry and orders descending by overall score, ties
// broken by policy identifier ascending. The tie-break keeps output
// reproducible across runs regardless of input order. Ranks are 1-based.
func Rank(entries []Entry, w criteria.Weights) ([]Ranked, error) {
	ranked := make([]Ranked, 0, len(entries))
	for _, e := range entries {
		score, err := Overall(e.Score, w)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, Ranked{PolicyID: e.PolicyID, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].PolicyID < ranked[j].PolicyID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// CollectEntries extracts each policy's latest assessment score from the
// collection. Policies with no assessment yet are skipped and logged rather
// than scored as zero.
func CollectEntries(col *policy.Collection, logger *slog.Logger) []Entry {
	var entries []Entry
	for _, p := range col.All() {
		latest, ok := p.LatestAssessment()
		if !ok {
			logger.Warn("policy has no assessments, excluded from ranking", "policy_id", p.ID)
			continue
		}
		entries = append(entries, Entry{PolicyID: p.ID, Score: latest.Score})
	}
	return entries
}
