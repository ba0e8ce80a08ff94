package engine

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/service"
)

// csvDateLayout is the calendar-day format used in CSV files. Dates may be
// reformatted across an export/import cycle but always parse back to the
// same day.
const csvDateLayout = "2006-01-02"

var csvHeader = []string{"Date", "Amount", "Description", "Category"}

// ImportResult reports how an import went, row by row.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ExportCSV writes the full ledger to w, newest first, with RFC 4180
// quoting so descriptions may contain commas and quotes.
func (e *Engine) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	transactions, err := e.store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for _, txn := range transactions {
		record := []string{
			txn.Date.Format(csvDateLayout),
			strconv.FormatFloat(txn.Amount, 'f', -1, 64),
			txn.Description,
			txn.Category,
		}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write transaction %d: %w", txn.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush export: %w", err)
	}

	return len(transactions), nil
}

// ImportCSV reads transactions from r and inserts them into the ledger.
// Rows are Date,Amount,Description[,Category]; a row without a category is
// classified from its description. Malformed rows are skipped and counted,
// never fatal. progress, if non-nil, is called after each row with
// (processed, total).
func (e *Engine) ImportCSV(ctx context.Context, r io.Reader, progress func(done, total int)) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read import file: %w", err)
	}

	rowOffset := 0
	if len(records) > 0 && isHeaderRow(records[0]) {
		records = records[1:]
		rowOffset = 1
	}

	var result ImportResult
	total := len(records)
	for i, record := range records {
		if progress != nil {
			progress(i+1, total)
		}

		txn, ok := e.parseImportRow(record)
		if !ok {
			result.Skipped++
			slog.Warn("skipping malformed import row", "row", i+rowOffset+1)
			continue
		}

		if _, err := e.store.SaveTransaction(ctx, txn); err != nil {
			return result, fmt.Errorf("failed to import row %d: %w", i+rowOffset+1, err)
		}
		result.Imported++
	}

	if result.Imported > 0 {
		e.refreshAverages(ctx)
	}

	slog.Info("import complete", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func (e *Engine) parseImportRow(record []string) (*model.Transaction, bool) {
	if len(record) < 3 {
		return nil, false
	}

	date, err := time.Parse(csvDateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return nil, false
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return nil, false
	}

	description := strings.TrimSpace(record[2])
	if description == "" {
		return nil, false
	}

	category := ""
	if len(record) > 3 {
		category = strings.TrimSpace(record[3])
	}
	if category == "" {
		category = e.categorizer.Predict(description).Category
	}

	return &model.Transaction{
		Date:        date,
		Amount:      amount,
		Description: description,
		Category:    category,
	}, true
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := time.Parse(csvDateLayout, strings.TrimSpace(record[0]))
	return err != nil
}
