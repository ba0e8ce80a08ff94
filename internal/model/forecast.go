package model

import "time"

// CategoryForecast is the projected spend for one category over a month.
type CategoryForecast struct {
	Category string
	Amount   float64
}

// BudgetBreach flags a category whose forecast exceeds its configured limit.
type BudgetBreach struct {
	Category  string
	Limit     float64
	Projected float64
	Overspend float64
}

// ForecastReport is the structured result of one forecasting session over a
// target month. Categories are sorted by projected amount, highest first,
// and only categories with a positive forecast are included.
type ForecastReport struct {
	Month           time.Time
	Categories      []CategoryForecast
	Breaches        []BudgetBreach
	Total           float64
	LastMonthActual float64
}

// TotalOverspend sums the projected overspend across all flagged categories.
func (r *ForecastReport) TotalOverspend() float64 {
	var total float64
	for _, b := range r.Breaches {
		total += b.Overspend
	}
	return total
}

// DeltaFromLastMonth returns the difference between the forecast total and
// last month's actual spend. Positive means more spending is projected.
func (r *ForecastReport) DeltaFromLastMonth() float64 {
	return r.Total - r.LastMonthActual
}
