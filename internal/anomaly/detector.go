// Package anomaly flags expenses that are far above a category's historical
// average.
package anomaly

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coinwise/coinwise/internal/service"
)

const (
	// MinAnomalyAmount is the floor below which nothing is flagged, so small
	// purchases never trip the detector.
	MinAnomalyAmount = 500.0

	// Multiplier is how many times the category average an amount must
	// exceed to be anomalous.
	Multiplier = 4.0
)

// Detector compares candidate expenses against a cached per-category
// average. The cache is process-wide and recomputed in full after every
// ledger mutation; there is deliberately no partial-update path, trading an
// O(n) recompute for correctness on single-user data sizes.
type Detector struct {
	store    service.Storage
	averages map[string]float64
	mu       sync.RWMutex
}

// NewDetector creates a detector with an empty cache. Call Refresh before
// first use; with no averages on file nothing is ever flagged.
func NewDetector(store service.Storage) *Detector {
	return &Detector{store: store}
}

// Refresh recomputes the full per-category average map from the ledger.
// Concurrent refreshes serialize on the cache lock; last writer wins, which
// is safe because a refresh is idempotent for a given ledger state.
func (d *Detector) Refresh(ctx context.Context) error {
	averages, err := d.store.GetCategoryAverages(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh spending averages: %w", err)
	}

	d.mu.Lock()
	d.averages = averages
	d.mu.Unlock()

	slog.Debug("refreshed spending averages", "categories", len(averages))
	return nil
}

// IsAnomalous reports whether an amount is unusually high for its category:
// at or above MinAnomalyAmount and more than Multiplier times the cached
// average. A missing or zero average never flags, so a fresh ledger is
// cold-start safe.
func (d *Detector) IsAnomalous(category string, amount float64) bool {
	if amount < MinAnomalyAmount {
		return false
	}

	d.mu.RLock()
	average := d.averages[category]
	d.mu.RUnlock()

	if average == 0 {
		return false
	}
	return amount > average*Multiplier
}
