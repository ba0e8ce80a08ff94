// Package engine orchestrates the analytic components over the ledger:
// classification on entry, cache invalidation on mutation, budget checks,
// recurring processing, and the asynchronous retrain/forecast/persona jobs.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coinwise/coinwise/internal/anomaly"
	"github.com/coinwise/coinwise/internal/budget"
	"github.com/coinwise/coinwise/internal/classifier"
	"github.com/coinwise/coinwise/internal/common"
	"github.com/coinwise/coinwise/internal/forecast"
	"github.com/coinwise/coinwise/internal/jobs"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/persona"
	"github.com/coinwise/coinwise/internal/recurring"
	"github.com/coinwise/coinwise/internal/service"
)

// Config holds the file locations the engine's training pipeline uses.
type Config struct {
	// CorpusPath is the labeled base training corpus (CSV with header).
	CorpusPath string
	// CorrectionsPath is the append-only user-correction log (headerless CSV).
	CorrectionsPath string
	// ModelPath is where the classifier artifact is persisted.
	ModelPath string
	// PersonaSeed fixes the clustering seed for reproducible runs.
	PersonaSeed int64
}

// Engine wires the six analytic components together over a single store.
type Engine struct {
	store       service.Storage
	categorizer *classifier.Categorizer
	detector    *anomaly.Detector
	monitor     *budget.Monitor
	scheduler   *recurring.Scheduler
	cfg         Config
}

// New creates an engine and primes the spending-averages cache. A dead
// store at startup is fatal to the caller; afterwards persistence failures
// are surfaced per operation.
func New(ctx context.Context, store service.Storage, monitor *budget.Monitor, cfg Config) (*Engine, error) {
	if cfg.PersonaSeed == 0 {
		cfg.PersonaSeed = persona.DefaultSeed
	}

	e := &Engine{
		store:       store,
		categorizer: classifier.NewCategorizer(),
		detector:    anomaly.NewDetector(store),
		monitor:     monitor,
		scheduler:   recurring.NewScheduler(store),
		cfg:         cfg,
	}

	if err := e.detector.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to prime spending averages: %w", err)
	}

	// A missing or broken artifact is not an error at startup; the
	// classifier degrades to its neutral result until a retrain.
	if cfg.ModelPath != "" {
		_ = e.categorizer.Reload(cfg.ModelPath)
	}

	return e, nil
}

// Categorizer exposes the hot-swappable classifier slot.
func (e *Engine) Categorizer() *classifier.Categorizer {
	return e.categorizer
}

// Detector exposes the anomaly detector.
func (e *Engine) Detector() *anomaly.Detector {
	return e.detector
}

// Monitor exposes the budget monitor.
func (e *Engine) Monitor() *budget.Monitor {
	return e.monitor
}

// AddTransaction checks for a budget breach, inserts the transaction, and
// refreshes the spending-averages cache. The returned budget is non-nil
// only when this transaction crosses its category's limit for the first
// time this month; the caller presents the alert and then calls
// Monitor().MarkAlerted.
func (e *Engine) AddTransaction(ctx context.Context, txn *model.Transaction) (int64, *model.Budget, error) {
	if err := validateAmount(txn.Amount); err != nil {
		return 0, nil, err
	}

	breach, err := e.monitor.CheckBreach(ctx, txn.Category, txn.Amount)
	if err != nil {
		return 0, nil, err
	}

	id, err := e.store.SaveTransaction(ctx, txn)
	if err != nil {
		return 0, nil, err
	}
	txn.ID = id

	e.refreshAverages(ctx)
	return id, breach, nil
}

// UpdateTransaction corrects an existing transaction and invalidates the
// averages cache built from pre-mutation data.
func (e *Engine) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateAmount(txn.Amount); err != nil {
		return err
	}
	if err := e.store.UpdateTransaction(ctx, txn); err != nil {
		return err
	}
	e.refreshAverages(ctx)
	return nil
}

// DeleteTransaction removes a transaction and invalidates the averages cache.
func (e *Engine) DeleteTransaction(ctx context.Context, id int64) error {
	if err := e.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	e.refreshAverages(ctx)
	return nil
}

// RecordCorrection appends a user category override to the corrections log
// and, when the override belongs to an existing transaction, rewrites that
// transaction's category.
func (e *Engine) RecordCorrection(ctx context.Context, txnID int64, category string) error {
	txn, err := e.store.GetTransactionByID(ctx, txnID)
	if err != nil {
		return err
	}

	if err := classifier.AppendCorrection(e.cfg.CorrectionsPath, model.Correction{
		Description: txn.Description,
		Category:    category,
	}); err != nil {
		return err
	}

	txn.Category = category
	return e.UpdateTransaction(ctx, txn)
}

// Retrain rebuilds the classifier from the base corpus plus every recorded
// correction, persists the artifact, and atomically swaps it into the live
// slot. It runs off the calling goroutine; wait on the returned job.
func (e *Engine) Retrain() *jobs.Job[*classifier.Model] {
	return jobs.Go(func() (*classifier.Model, error) {
		examples, err := classifier.TrainingSet(e.cfg.CorpusPath, e.cfg.CorrectionsPath)
		if err != nil {
			return nil, err
		}

		m, err := classifier.Train(examples)
		if err != nil {
			return nil, err
		}

		if err := classifier.SaveModel(m, e.cfg.ModelPath); err != nil {
			return nil, err
		}

		e.categorizer.Swap(m)
		slog.Info("classifier retrained",
			"examples", len(examples),
			"categories", len(m.Categories()))
		return m, nil
	})
}

// Forecast trains a fresh session over the current ledger and projects the
// given month. It runs off the calling goroutine; wait on the returned job.
func (e *Engine) Forecast(ctx context.Context, month time.Time) *jobs.Job[*model.ForecastReport] {
	return jobs.Go(func() (*model.ForecastReport, error) {
		session, err := forecast.BuildSession(ctx, e.store)
		if err != nil {
			return nil, err
		}
		return session.ForecastMonth(ctx, e.store, month)
	})
}

// GeneratePersona clusters the full transaction history into behavioral
// groups. It runs off the calling goroutine; wait on the returned job. The
// job yields nil without error when there is too little history.
func (e *Engine) GeneratePersona(ctx context.Context) *jobs.Job[*model.Persona] {
	return jobs.Go(func() (*model.Persona, error) {
		transactions, err := e.store.GetTransactions(ctx, service.TransactionFilter{})
		if err != nil {
			return nil, err
		}
		return persona.NewClusterer(e.cfg.PersonaSeed).Generate(transactions)
	})
}

// ProcessRecurring materializes every due recurring obligation and
// refreshes the averages cache if anything was added. Returns the count of
// materialized transactions.
func (e *Engine) ProcessRecurring(ctx context.Context) (int, error) {
	count, err := e.scheduler.ProcessDue(ctx)
	if count > 0 {
		e.refreshAverages(ctx)
	}
	return count, err
}

// refreshAverages recomputes the anomaly cache after a ledger mutation.
/// A failed refresh is logged, not surfaced: anomaly detection degrades
// gracefully and must never block the add-transaction flow.
func (e *Engine) refreshAverages(ctx context.Context) {
	if err := e.detector.Refresh(ctx); err != nil {
		common.LogError(err, "failed to refresh spending averages", nil)
	}
}

func validateAmount(amount float64) error {
	if amount == 0 {
		return common.NewValidationError("amount", "must be non-zero")
	}
	return nil
}
