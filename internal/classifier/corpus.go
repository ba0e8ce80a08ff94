package classifier

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/coinwise/coinwise/internal/model"
)

// LoadBaseCorpus reads the labeled base training corpus: a two-column CSV
// (description, category) with a header row, quote-escaped for embedded
// delimiters.
func LoadBaseCorpus(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	examples, err := readExamples(f, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read training corpus %s: %w", path, err)
	}
	return examples, nil
}

// LoadCorrections reads the append-only corrections log: the same two-column
// shape as the base corpus but headerless. A missing file simply means no
// corrections have been recorded yet.
func LoadCorrections(path string) ([]Example, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open corrections log: %w", err)
	}
	defer func() { _ = f.Close() }()

	examples, err := readExamples(f, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections log %s: %w", path, err)
	}
	return examples, nil
}

func readExamples(r io.Reader, skipHeader bool) ([]Example, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	var examples []Example
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed row: %w", err)
		}
		if first && skipHeader {
			first = false
			continue
		}
		first = false
		examples = append(examples, Example{Description: record[0], Category: record[1]})
	}

	return examples, nil
}

// AppendCorrection appends one user override to the corrections log. The
// log is append-only; records are never edited or deleted, which gives
// corrections unbounded weight across retrains.
func AppendCorrection(path string, correction model.Correction) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open corrections log: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{correction.Description, correction.Category}); err != nil {
		return fmt.Errorf("failed to append correction: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush correction: %w", err)
	}

	return nil
}

// TrainingSet combines the base corpus with every recorded correction. This
// is the full training input for a retrain; categories appearing in neither
// source cannot be predicted.
func TrainingSet(corpusPath, correctionsPath string) ([]Example, error) {
	examples, err := LoadBaseCorpus(corpusPath)
	if err != nil {
		return nil, err
	}

	corrections, err := LoadCorrections(correctionsPath)
	if err != nil {
		return nil, err
	}

	return append(examples, corrections...), nil
}
