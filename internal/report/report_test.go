package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/policyrank/internal/ahp"
	"github.com/civicworks/policyrank/internal/ranking"
	"github.com/civicworks/policyrank/internal/sensitivity"
)

func TestNewRankingRoundsToTwoDecimals(t *testing.T) {
	ranked := []ranking.Ranked{
		{PolicyID: "pol-a", Score: 27.5 / 7.0, Rank: 1},
		{PolicyID: "pol-b", Score: 2.5, Rank: 2},
	}
	r := NewRanking(ranked, "default", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	require.Len(t, r.Entries, 2)
	assert.Equal(t, 3.93, r.Entries[0].OverallScore)
	assert.Equal(t, 1, r.Entries[0].Rank)
	assert.Equal(t, "default", r.WeightSource)
}

func TestRankingJSONShape(t *testing.T) {
	ranked := []ranking.Ranked{{PolicyID: "pol-a", Score: 3.2, Rank: 1}}
	var buf bytes.Buffer
	require.NoError(t, NewRanking(ranked, "ahp", time.Now()).WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "rankings")
	assert.Contains(t, decoded, "weight_source")

	rows := decoded["rankings"].([]any)
	row := rows[0].(map[string]any)
	assert.Equal(t, "pol-a", row["policy_id"])
	assert.Equal(t, float64(1), row["rank"])
}

func TestRankingMarkdown(t *testing.T) {
	ranked := []ranking.Ranked{
		{PolicyID: "pol-a", Score: 4.0, Rank: 1},
		{PolicyID: "pol-b", Score: 3.0, Rank: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, NewRanking(ranked, "default", time.Now()).WriteMarkdown(&buf))

	out := buf.String()
	assert.Contains(t, out, "# Policy Ranking")
	assert.Contains(t, out, "| 1 | pol-a | 4.00 |")
	assert.Contains(t, out, "| 2 | pol-b | 3.00 |")
}

func TestAHPDiagnostic(t *testing.T) {
	result, err := ahp.Derive([]ahp.Judgment{
		{A: "scope", B: "magnitude", Ratio: 9},
		{A: "magnitude", B: "durability", Ratio: 9},
		{A: "scope", B: "durability", Ratio: 1},
	})
	require.NoError(t, err)

	d := NewAHPDiagnostic(result)
	assert.False(t, d.Consistent)
	assert.Len(t, d.PriorityVector, 5)

	var sum float64
	for _, p := range d.PriorityVector {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	var buf bytes.Buffer
	require.NoError(t, d.WriteMarkdown(&buf))
	assert.Contains(t, buf.String(), "INCONSISTENT")
}

func TestSensitivityMarkdownSortsPairs(t *testing.T) {
	s := NewSensitivity(sensitivity.Result{
		BaselineTop:      "pol-a",
		TopRankStability: 0.87,
		Trials:           200,
		Seed:             42,
		PerPairStability: map[string]float64{
			"pol-b>pol-c": 0.91,
			"pol-a>pol-b": 0.87,
		},
	})

	var buf bytes.Buffer
	require.NoError(t, s.WriteMarkdown(&buf))
	out := buf.String()

	assert.Contains(t, out, "Top-rank stability: 0.870")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("pol-a>pol-b")), bytes.Index(buf.Bytes(), []byte("pol-b>pol-c")))
	assert.Contains(t, out, "seed 42")
}
