package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCategoryRankingsTopN(t *testing.T) {
	rankings := CategoryRankings{
		{Category: "Groceries", Confidence: 0.2},
		{Category: "Dining", Confidence: 0.7},
		{Category: "Transport", Confidence: 0.1},
	}

	top := rankings.TopN(2)
	require.Len(t, top, 2)
	assert.Equal(t, "Dining", top[0].Category)
	assert.Equal(t, "Groceries", top[1].Category)

	assert.Empty(t, rankings.TopN(0))
	assert.Len(t, rankings.TopN(10), 3)
}

func TestCategoryRankingsTieKeepsInputOrder(t *testing.T) {
	rankings := CategoryRankings{
		{Category: "Bills", Confidence: 0.5},
		{Category: "Auto", Confidence: 0.5},
		{Category: "Dining", Confidence: 0.5},
	}

	rankings.Sort()

	// Equal confidence must not reorder: the sort is stable.
	assert.Equal(t, "Bills", rankings[0].Category)
	assert.Equal(t, "Auto", rankings[1].Category)
	assert.Equal(t, "Dining", rankings[2].Category)
}

func TestCategoryRankingsAboveThreshold(t *testing.T) {
	rankings := CategoryRankings{
		{Category: "Groceries", Confidence: 0.04},
		{Category: "Dining", Confidence: 0.05},
		{Category: "Transport", Confidence: 0.9},
	}

	kept := rankings.AboveThreshold(0.05)
	require.Len(t, kept, 2)
	assert.Equal(t, "Transport", kept[0].Category)
	assert.Equal(t, "Dining", kept[1].Category)
}

func TestCategoryRankingsValidate(t *testing.T) {
	valid := CategoryRankings{
		{Category: "Groceries", Confidence: 0.3},
		{Category: "Dining", Confidence: 0.7},
	}
	assert.NoError(t, valid.Validate())

	dupes := CategoryRankings{
		{Category: "Groceries", Confidence: 0.3},
		{Category: "Groceries", Confidence: 0.1},
	}
	assert.Error(t, dupes.Validate())

	outOfRange := CategoryRankings{{Category: "Groceries", Confidence: 1.5}}
	assert.Error(t, outOfRange.Validate())

	unnamed := CategoryRankings{{Category: "", Confidence: 0.5}}
	assert.Error(t, unnamed.Validate())
}

func TestISOWeekday(t *testing.T) {
	// 2025-08-25 is a Monday, 2025-08-31 a Sunday.
	monday := Transaction{Date: day(2025, 8, 25)}
	sunday := Transaction{Date: day(2025, 8, 31)}

	assert.Equal(t, 1, monday.Weekday())
	assert.Equal(t, 7, sunday.Weekday())
}

func TestMonthOf(t *testing.T) {
	txn := Transaction{Date: day(2025, 8, 31)}
	assert.Equal(t, "2025-08", txn.MonthOf())
}
