// Package persona clusters historical transactions into behavioral groups
// and describes each group in plain language.
package persona

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/coinwise/coinwise/internal/model"
)

const (
	// MinTransactions is the smallest history worth clustering; below it
	// Generate returns no persona rather than an error.
	MinTransactions = 30

	// DefaultSeed keeps clustering reproducible across runs and in tests.
	// Overridable through configuration.
	DefaultSeed = 1

	numClusters        = 3
	maxIterations      = 100
	topCategoryCount   = 2
	highValueThreshold = 1000.0
	weekendBoundary    = 5.5
)

// Clusterer groups transactions into up to three behavioral clusters. It is
// read-only and stateless between calls.
type Clusterer struct {
	seed int64
}

// NewClusterer creates a clusterer with the given random seed.
func NewClusterer(seed int64) *Clusterer {
	return &Clusterer{seed: seed}
}

// Generate clusters the transactions over the normalized (amount,
// day-of-week) space and summarizes each non-empty cluster. It returns nil
// with no error when there are fewer than MinTransactions — not enough
// history to say anything meaningful.
func (c *Clusterer) Generate(transactions []model.Transaction) (*model.Persona, error) {
	if len(transactions) < MinTransactions {
		return nil, nil
	}

	points := make([]point, len(transactions))
	for i, txn := range transactions {
		points[i] = point{amount: txn.Amount, day: float64(txn.Weekday())}
	}

	rng := rand.New(rand.NewSource(c.seed))
	assignments := kmeans(normalize(points), numClusters, maxIterations, rng)

	clusters := make([][]model.Transaction, numClusters)
	for i, cluster := range assignments {
		clusters[cluster] = append(clusters[cluster], transactions[i])
	}

	persona := &model.Persona{Title: "Your Financial Persona"}
	for _, members := range clusters {
		if len(members) == 0 {
			continue
		}
		persona.Clusters = append(persona.Clusters, summarize(members))
	}

	slog.Debug("generated persona",
		"transactions", len(transactions),
		"clusters", len(persona.Clusters))

	return persona, nil
}

// summarize describes one non-empty cluster.
func summarize(members []model.Transaction) model.ClusterSummary {
	var amountSum, daySum float64
	for _, txn := range members {
		amountSum += txn.Amount
		daySum += float64(txn.Weekday())
	}
	avgAmount := amountSum / float64(len(members))
	avgDay := daySum / float64(len(members))

	timeFocus := "Weekday"
	if avgDay >= weekendBoundary {
		timeFocus = "Weekend"
	}

	value := "Low-Value"
	if avgAmount > highValueThreshold {
		value = "High-Value"
	}

	return model.ClusterSummary{
		Name:             fmt.Sprintf("%s %s Spending", value, timeFocus),
		TimeFocus:        timeFocus,
		TransactionCount: len(members),
		AverageAmount:    avgAmount,
		TopCategories:    topCategories(members, topCategoryCount),
	}
}

// topCategories returns the n most frequent categories in the cluster,
// ties broken by first-encountered category.
func topCategories(members []model.Transaction, n int) []model.CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, txn := range members {
		if _, seen := counts[txn.Category]; !seen {
			order = append(order, txn.Category)
		}
		counts[txn.Category]++
	}

	ranked := make([]model.CategoryCount, 0, len(order))
	for _, category := range order {
		ranked = append(ranked, model.CategoryCount{Category: category, Count: counts[category]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
