// Package classifier trains and applies the naive-Bayes category classifier
// that maps free-text transaction descriptions to spending categories.
package classifier

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jbrukh/bayesian"

	"github.com/coinwise/coinwise/internal/common"
	"github.com/coinwise/coinwise/internal/model"
)

const (
	// UnknownCategory is the neutral result returned when no model is loaded.
	UnknownCategory = "Other"

	// MinConfidence is the floor below which top-K candidates are dropped.
	MinConfidence = 0.05
)

// Example is one labeled training row: a description and its category.
type Example struct {
	Description string
	Category    string
}

// Model is a trained classifier over a fixed label set and vocabulary.
// Unknown tokens at predict time contribute nothing; the vocabulary only
// grows through retraining.
type Model struct {
	cl      *bayesian.Classifier
	classes []bayesian.Class
}

// Train builds a model from labeled examples. The label set is the set of
// distinct categories in the examples, in input order. It fails with
// common.ErrInsufficientData on an empty corpus or a corpus with fewer than
// two categories, since a classifier needs something to discriminate.
func Train(examples []Example) (*Model, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("training corpus is empty: %w", common.ErrInsufficientData)
	}

	seen := make(map[string]bool)
	var classes []bayesian.Class
	for _, ex := range examples {
		if ex.Category == "" || seen[ex.Category] {
			continue
		}
		seen[ex.Category] = true
		classes = append(classes, bayesian.Class(ex.Category))
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("training corpus has %d categories, need at least 2: %w",
			len(classes), common.ErrInsufficientData)
	}

	cl := bayesian.NewClassifier(classes...)
	for _, ex := range examples {
		terms := Tokenize(ex.Description)
		if len(terms) == 0 {
			continue
		}
		cl.Learn(terms, bayesian.Class(ex.Category))
	}

	return &Model{cl: cl, classes: classes}, nil
}

// Categories returns the label set the model can predict, in input order.
func (m *Model) Categories() []string {
	out := make([]string, len(m.classes))
	for i, c := range m.classes {
		out[i] = string(c)
	}
	return out
}

// Predict returns the most likely category for a description along with the
// classifier's confidence in [0, 1].
func (m *Model) Predict(description string) model.CategoryRanking {
	scores, best, _ := m.cl.ProbScores(Tokenize(description))
	return model.CategoryRanking{
		Category:   string(m.classes[best]),
		Confidence: scores[best],
	}
}

// PredictTopK returns up to k categories with confidence at or above
// MinConfidence, best first. Ties keep label-set order.
func (m *Model) PredictTopK(description string, k int) model.CategoryRankings {
	scores, _, _ := m.cl.ProbScores(Tokenize(description))

	var rankings model.CategoryRankings
	for i, score := range scores {
		if score >= MinConfidence {
			rankings = append(rankings, model.CategoryRanking{
				Category:   string(m.classes[i]),
				Confidence: score,
			})
		}
	}

	return rankings.TopN(k)
}

// Tokenize case-folds a description and splits it into letter/digit runs.
// Punctuation and symbols are dropped.
func Tokenize(description string) []string {
	lowered := strings.ToLower(description)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
