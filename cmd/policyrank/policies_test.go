package main

import (
	"testing"

	"github.com/civicworks/policyrank/internal/policy"
)

func TestCategorySummaryDeterministicOrder(t *testing.T) {
	col := policy.NewCollection()

	// Insert in an order unlike the canonical category order.
	welfare, _ := policy.NewPolicy("pol-1", "Housing Support", policy.CategorySocialWelfare, 2019)
	carbon, _ := policy.NewPolicy("pol-2", "Carbon Tax", policy.CategoryEnvironmental, 2015)
	transit, _ := policy.NewPolicy("pol-3", "Transit Expansion", policy.CategoryInfrastructure, 2018)
	plastics, _ := policy.NewPolicy("pol-4", "Plastics Ban", policy.CategoryEnvironmental, 2021)
	for _, p := range []*policy.Policy{welfare, carbon, transit, plastics} {
		if err := col.Add(p); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	want := []string{
		"environmental: 2",
		"infrastructure: 1",
		"social_welfare: 1",
	}

	for i := 0; i < 5; i++ {
		lines := categorySummary(col)
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
		}
		for j, line := range lines {
			if line != want[j] {
				t.Errorf("line %d: expected %q, got %q", j, want[j], line)
			}
		}
	}
}
