package classifier

import (
	"log/slog"
	"sync"

	"github.com/coinwise/coinwise/internal/model"
)

// Categorizer is the hot-swappable model slot used by the rest of the
// application. Predict calls either see the previous model fully or the new
// model fully, never a partial update. Until a model is trained or loaded,
// predictions degrade to UnknownCategory with zero confidence instead of
// failing, so classification never blocks the add-transaction flow.
type Categorizer struct {
	model *Model
	mu    sync.RWMutex
}

// NewCategorizer creates an empty categorizer with no model loaded.
func NewCategorizer() *Categorizer {
	return &Categorizer{}
}

// Ready reports whether a model is currently loaded.
func (c *Categorizer) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model != nil
}

// Swap atomically replaces the active model.
func (c *Categorizer) Swap(m *Model) {
	c.mu.Lock()
	c.model = m
	c.mu.Unlock()
}

// Reload replaces the active model with the artifact stored at path. On
// failure the slot is cleared: a broken artifact degrades to "no model
// loaded" rather than leaving a stale or partial model in place.
func (c *Categorizer) Reload(path string) error {
	m, err := LoadModel(path)

	c.mu.Lock()
	c.model = m
	c.mu.Unlock()

	if err != nil {
		slog.Warn("classifier model reload failed; predictions disabled until retrain",
			"path", path, "error", err)
		return err
	}

	slog.Info("classifier model reloaded", "path", path, "categories", len(m.classes))
	return nil
}

// Categories returns the active model's label set, or nil when no model is
// loaded.
func (c *Categorizer) Categories() []string {
	c.mu.RLock()
	m := c.model
	c.mu.RUnlock()

	if m == nil {
		return nil
	}
	return m.Categories()
}

// Predict returns the best category for a description, or the neutral
// (UnknownCategory, 0.0) result when no model is loaded.
func (c *Categorizer) Predict(description string) model.CategoryRanking {
	c.mu.RLock()
	m := c.model
	c.mu.RUnlock()

	if m == nil {
		return model.CategoryRanking{Category: UnknownCategory, Confidence: 0}
	}
	return m.Predict(description)
}

// PredictTopK returns up to k candidate categories above the confidence
// floor, best first. With no model loaded it returns an empty list.
func (c *Categorizer) PredictTopK(description string, k int) model.CategoryRankings {
	c.mu.RLock()
	m := c.model
	c.mu.RUnlock()

	if m == nil {
		return model.CategoryRankings{}
	}
	return m.PredictTopK(description, k)
}
