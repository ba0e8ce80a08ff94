package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/service"
)

// Session is one end-to-end train-then-predict workflow. The predictor and
// the category-code mapping are built together from a single snapshot of the
// ledger and stay fixed for the session's lifetime.
type Session struct {
	predictor *Predictor
	codes     CategoryCodes
}

// BuildSession snapshots the ledger and trains a fresh predictor over it.
func BuildSession(ctx context.Context, store service.Storage) (*Session, error) {
	transactions, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}

	// Storage returns newest first; codes and samples want oldest first so
	// the code mapping is stable for a given ledger state.
	oldestFirst := make([]model.Transaction, len(transactions))
	for i, txn := range transactions {
		oldestFirst[len(transactions)-1-i] = txn
	}

	return NewSession(oldestFirst)
}

// NewSession trains a session from transactions ordered oldest first.
func NewSession(transactions []model.Transaction) (*Session, error) {
	codes := NewCategoryCodes(transactions)

	samples := make([]Sample, 0, len(transactions))
	for _, txn := range transactions {
		code, ok := codes.Code(txn.Category)
		if !ok {
			continue
		}
		samples = append(samples, Sample{
			DayOfWeek:  txn.Weekday(),
			DayOfMonth: txn.Date.Day(),
			Month:      int(txn.Date.Month()),
			Category:   code,
			Amount:     txn.Amount,
		})
	}

	predictor, err := Train(samples)
	if err != nil {
		return nil, err
	}

	return &Session{predictor: predictor, codes: codes}, nil
}

// Categories returns the categories this session can forecast.
func (s *Session) Categories() []string {
	return s.codes.Categories()
}

// PredictDay returns the expected spend for one category on one date.
func (s *Session) PredictDay(date time.Time, category string) (float64, error) {
	code, ok := s.codes.Code(category)
	if !ok {
		return 0, fmt.Errorf("category %q not in this session", category)
	}
	return s.predictor.Predict(model.ISOWeekday(date), date.Day(), int(date.Month()), code), nil
}

// ForecastMonth sums per-day predictions across every calendar day of the
// target month for each known category, then compares the result against
// last month's actual total and the configured budget limits.
func (s *Session) ForecastMonth(ctx context.Context, store service.Storage, month time.Time) (*model.ForecastReport, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	categories := s.codes.Categories()
	totals := make([]float64, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			code, _ := s.codes.Code(category)
			var total float64
			for day := 1; day <= daysInMonth; day++ {
				date := first.AddDate(0, 0, day-1)
				total += s.predictor.Predict(model.ISOWeekday(date), date.Day(), int(date.Month()), code)
			}
			totals[i] = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("forecast sweep failed: %w", err)
	}

	report := &model.ForecastReport{Month: first}
	predicted := make(map[string]float64, len(categories))
	for i, category := range categories {
		if totals[i] <= 0 {
			continue
		}
		predicted[category] = totals[i]
		report.Categories = append(report.Categories, model.CategoryForecast{
			Category: category,
			Amount:   totals[i],
		})
		report.Total += totals[i]
	}

	sort.Slice(report.Categories, func(i, j int) bool {
		if report.Categories[i].Amount != report.Categories[j].Amount {
			return report.Categories[i].Amount > report.Categories[j].Amount
		}
		return report.Categories[i].Category < report.Categories[j].Category
	})

	lastMonth := first.AddDate(0, -1, 0)
	lastMonthActual, err := store.GetTotalForMonth(ctx, lastMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load last month's total: %w", err)
	}
	report.LastMonthActual = lastMonthActual

	budgets, err := store.GetBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}
	for _, budget := range budgets {
		projected, ok := predicted[budget.Category]
		if !ok || projected <= budget.MonthlyLimit {
			continue
		}
		report.Breaches = append(report.Breaches, model.BudgetBreach{
			Category:  budget.Category,
			Limit:     budget.MonthlyLimit,
			Projected: projected,
			Overspend: projected - budget.MonthlyLimit,
		})
	}

	slog.Info("forecast complete",
		"month", first.Format(model.MonthKey),
		"categories", len(report.Categories),
		"total", report.Total,
		"breaches", len(report.Breaches))

	return report, nil
}
