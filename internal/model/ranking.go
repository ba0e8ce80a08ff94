package model

import (
	"fmt"
	"sort"
)

// CategoryRanking represents how likely a description belongs to a specific
// spending category.
type CategoryRanking struct {
	Category   string
	Confidence float64
}

// Validate ensures the CategoryRanking has valid data.
func (r *CategoryRanking) Validate() error {
	if r.Category == "" {
		return fmt.Errorf("category name is required")
	}

	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", r.Confidence)
	}

	return nil
}

// CategoryRankings is a slice of CategoryRanking that supports sorting and
// utility methods.
type CategoryRankings []CategoryRanking

// Len implements sort.Interface.
func (r CategoryRankings) Len() int {
	return len(r)
}

// Less implements sort.Interface - higher confidences come first. Equal
// confidences keep their original order because Sort is stable.
func (r CategoryRankings) Less(i, j int) bool {
	return r[i].Confidence > r[j].Confidence
}

// Swap implements sort.Interface.
func (r CategoryRankings) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

// Sort sorts the rankings by confidence in descending order.
func (r CategoryRankings) Sort() {
	sort.Stable(r)
}

// Top returns the highest-confidence ranking, or nil if empty.
func (r CategoryRankings) Top() *CategoryRanking {
	if len(r) == 0 {
		return nil
	}
	r.Sort()
	return &r[0]
}

// TopN returns the N highest-confidence rankings.
func (r CategoryRankings) TopN(n int) CategoryRankings {
	if n <= 0 {
		return CategoryRankings{}
	}

	r.Sort()

	if n > len(r) {
		n = len(r)
	}

	result := make(CategoryRankings, n)
	copy(result, r[:n])
	return result
}

// AboveThreshold returns all rankings with confidence at or above the given
// threshold, best first.
func (r CategoryRankings) AboveThreshold(threshold float64) CategoryRankings {
	r.Sort()

	var result CategoryRankings
	for _, ranking := range r {
		if ranking.Confidence >= threshold {
			result = append(result, ranking)
		}
	}
	return result
}

// Validate ensures all rankings in the slice are valid.
func (r CategoryRankings) Validate() error {
	seen := make(map[string]bool)

	for i, ranking := range r {
		if err := ranking.Validate(); err != nil {
			return fmt.Errorf("invalid ranking at index %d: %w", i, err)
		}

		if seen[ranking.Category] {
			return fmt.Errorf("duplicate category %q in rankings", ranking.Category)
		}
		seen[ranking.Category] = true
	}

	return nil
}
