// Package ingest parses the validated tabular inputs the engine consumes:
// CSV policy and assessment records, and yaml weighting input (literal
// weights or pairwise judgments).
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/civicworks/policyrank/internal/criteria"
	"github.com/civicworks/policyrank/internal/policy"
)

var policyHeader = []string{"id", "name", "category", "implementation_year"}

var assessmentHeader = []string{
	"policy_id", "scope", "magnitude", "durability", "adaptability",
	"cross_referencing", "assessor", "assessment_date", "data_sources", "notes",
}

// assessment dates accept full timestamps or plain dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ReadPolicies parses policy records into a fresh collection. Expected
// columns: id, name, category, implementation_year. Errors carry the
// 1-based row number of the offending record.
func ReadPolicies(r io.Reader) (*policy.Collection, error) {
	rows, err := readAll(r, policyHeader)
	if err != nil {
		return nil, err
	}

	col := policy.NewCollection()
	for i, row := range rows {
		year, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("policies row %d: implementation_year: %w", i+2, err)
		}
		p, err := policy.NewPolicy(row[0], row[1], policy.Category(row[2]), year)
		if err != nil {
			return nil, fmt.Errorf("policies row %d: %w", i+2, err)
		}
		if err := col.Add(p); err != nil {
			return nil, fmt.Errorf("policies row %d: %w", i+2, err)
		}
	}
	return col, nil
}

// ReadAssessments parses assessment records and attaches them to the
// collection's policies under the given weights. Records referencing an
// unknown policy are rejected, not skipped.
func ReadAssessments(r io.Reader, col *policy.Collection, weights criteria.Weights) error {
	rows, err := readAll(r, assessmentHeader)
	if err != nil {
		return err
	}

	for i, row := range rows {
		rowNum := i + 2

		p, ok := col.Get(row[0])
		if !ok {
			return fmt.Errorf("assessments row %d: unknown policy %q", rowNum, row[0])
		}

		var values [criteria.NumCriteria]int
		for j := 0; j < criteria.NumCriteria; j++ {
			v, err := strconv.Atoi(strings.TrimSpace(row[j+1]))
			if err != nil {
				return fmt.Errorf("assessments row %d: %s: %w", rowNum, criteria.Criterion(j), err)
			}
			values[j] = v
		}
		score, err := criteria.NewScore(values[0], values[1], values[2], values[3], values[4])
		if err != nil {
			return fmt.Errorf("assessments row %d: %w", rowNum, err)
		}

		assessedAt, err := parseDate(row[7])
		if err != nil {
			return fmt.Errorf("assessments row %d: assessment_date: %w", rowNum, err)
		}

		a, err := policy.NewAssessment(row[0], row[6], assessedAt, score, weights)
		if err != nil {
			return fmt.Errorf("assessments row %d: %w", rowNum, err)
		}
		a.DataSources = row[8]
		a.Notes = row[9]

		if err := p.AddAssessment(a); err != nil {
			return fmt.Errorf("assessments row %d: %w", rowNum, err)
		}
	}
	return nil
}

// readAll validates the header row and returns the data rows.
func readAll(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: empty input, expected header %s", strings.Join(header, ","))
	}

	got := records[0]
	if len(got) != len(header) {
		return nil, fmt.Errorf("read csv: expected %d columns, got %d", len(header), len(got))
	}
	for i, name := range header {
		if strings.TrimSpace(got[i]) != name {
			return nil, fmt.Errorf("read csv: column %d: expected %q, got %q", i+1, name, got[i])
		}
	}
	return records[1:], nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
