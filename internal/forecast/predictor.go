package forecast

import (
	"fmt"
	"sort"

	"github.com/coinwise/coinwise/internal/common"
)

const (
	// MinTrainingSamples is the smallest history the regressor will train on.
	MinTrainingSamples = 10

	// defaultNeighbors is how many nearest samples are averaged per prediction.
	defaultNeighbors = 3
)

// Sample is one training observation: the calendar position and category of
// a historical transaction, plus the amount spent.
type Sample struct {
	DayOfWeek  int
	DayOfMonth int
	Month      int
	Category   int
	Amount     float64
}

// Predictor is an instance-based regressor: a prediction is the average
// amount of the k training samples nearest in (calendar, category) feature
// space. It is rebuilt fresh for every forecasting session and never
// persisted.
type Predictor struct {
	samples   []Sample
	neighbors int
}

// Train builds a predictor from historical samples. It fails with
// common.ErrInsufficientData when fewer than MinTrainingSamples are given.
func Train(samples []Sample) (*Predictor, error) {
	if len(samples) < MinTrainingSamples {
		return nil, fmt.Errorf("have %d samples, need at least %d: %w",
			len(samples), MinTrainingSamples, common.ErrInsufficientData)
	}

	owned := make([]Sample, len(samples))
	copy(owned, samples)

	return &Predictor{samples: owned, neighbors: defaultNeighbors}, nil
}

// Predict returns the expected spend for a calendar position and category
// code. Results are non-negative and deterministic for a fixed model:
// distance ties are broken by training-set order.
func (p *Predictor) Predict(dayOfWeek, dayOfMonth, month, categoryCode int) float64 {
	type scored struct {
		distance float64
		index    int
	}

	distances := make([]scored, len(p.samples))
	for i, s := range p.samples {
		distances[i] = scored{distance: p.distance(s, dayOfWeek, dayOfMonth, month, categoryCode), index: i}
	}

	sort.SliceStable(distances, func(i, j int) bool {
		return distances[i].distance < distances[j].distance
	})

	k := p.neighbors
	if k > len(distances) {
		k = len(distances)
	}

	var sum float64
	for _, d := range distances[:k] {
		sum += p.samples[d.index].Amount
	}

	prediction := sum / float64(k)
	if prediction < 0 {
		return 0
	}
	return prediction
}

// distance is the squared Euclidean distance in raw feature space. Category
// codes are dense small integers, so a category mismatch weighs comparably
// to a calendar shift.
func (p *Predictor) distance(s Sample, dayOfWeek, dayOfMonth, month, categoryCode int) float64 {
	dw := float64(s.DayOfWeek - dayOfWeek)
	dm := float64(s.DayOfMonth - dayOfMonth)
	mo := float64(s.Month - month)
	cc := float64(s.Category - categoryCode)
	return dw*dw + dm*dm + mo*mo + cc*cc
}
