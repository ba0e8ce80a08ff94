package classifier

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jbrukh/bayesian"
)

// SaveModel persists a trained model artifact (vocabulary, weights and label
// set) to path. The write goes through a temp file and a rename so readers
// never observe a half-written artifact.
func SaveModel(m *Model, path string) error {
	if m == nil {
		return fmt.Errorf("cannot save nil model")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := m.cl.WriteToFile(tmp); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace model artifact: %w", err)
	}

	return nil
}

// LoadModel reads a model artifact from path. A failed load returns an
// error and no model; the caller falls back to "no model loaded" rather
// than a partially constructed one.
func LoadModel(path string) (*Model, error) {
	cl, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model artifact: %w", err)
	}

	return &Model{cl: cl, classes: cl.Classes}, nil
}
