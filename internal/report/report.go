// Package report turns record lists into the month and year views: date
// bounds for range queries, per-day income aggregates, and amount formatting.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/workledger/pkg/types"
)

// MonthRange returns the inclusive YYYY-MM-DD bounds of the given month.
func MonthRange(year int, month time.Month) (start, end string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(time.DateOnly), last.Format(time.DateOnly)
}

// YearRange returns the inclusive YYYY-MM-DD bounds of the given year.
func YearRange(year int) (start, end string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	return t.Year(), t.Month(), nil
}

// Summary aggregates a set of records by calendar day.
type Summary struct {
	WorkDays     int     `json:"workDays"`
	Records      int     `json:"records"`
	TotalIncome  float64 `json:"totalIncome"`
	DailyAverage float64 `json:"dailyAverage"`
	MaxDaily     float64 `json:"maxDaily"`
	Days1To10    float64 `json:"days1To10"`
	Days11To20   float64 `json:"days11To20"`
	Days21ToEnd  float64 `json:"days21ToEnd"`
	Daily        []Day   `json:"daily"`
}

// Day is the income earned on one date.
type Day struct {
	Date    string  `json:"date"`
	Records int     `json:"records"`
	Income  float64 `json:"income"`
}

// Summarize groups records by date. A work day is any date with at least one
// record; income is the sum of totals. Dates whose day-of-month cannot be
// read still count as work days but fall in no ten-day bucket.
func Summarize(records []types.WorkRecord) Summary {
	type bucket struct {
		records int
		income  decimal.Decimal
	}
	days := make(map[string]*bucket)
	for _, r := range records {
		b, ok := days[r.Date]
		if !ok {
			b = &bucket{}
			days[r.Date] = b
		}
		b.records++
		b.income = b.income.Add(decimal.NewFromFloat(r.Total))
	}

	s := Summary{Records: len(records), WorkDays: len(days), Daily: []Day{}}
	if len(days) == 0 {
		return s
	}

	var total, peak, early, middle, late decimal.Decimal
	first := true
	for date, b := range days {
		total = total.Add(b.income)
		if first || b.income.GreaterThan(peak) {
			peak = b.income
			first = false
		}
		switch day := dayOfMonth(date); {
		case day >= 1 && day <= 10:
			early = early.Add(b.income)
		case day >= 11 && day <= 20:
			middle = middle.Add(b.income)
		case day >= 21:
			late = late.Add(b.income)
		}
		s.Daily = append(s.Daily, Day{Date: date, Records: b.records, Income: b.income.InexactFloat64()})
	}
	sort.Slice(s.Daily, func(i, j int) bool { return s.Daily[i].Date < s.Daily[j].Date })

	s.TotalIncome = total.InexactFloat64()
	s.DailyAverage = total.Div(decimal.NewFromInt(int64(len(days)))).InexactFloat64()
	s.MaxDaily = peak.InexactFloat64()
	s.Days1To10 = early.InexactFloat64()
	s.Days11To20 = middle.InexactFloat64()
	s.Days21ToEnd = late.InexactFloat64()
	return s
}

// dayOfMonth reads DD from YYYY-MM-DD, or returns 0.
func dayOfMonth(date string) int {
	if len(date) != len(time.DateOnly) {
		return 0
	}
	d, err := strconv.Atoi(date[8:])
	if err != nil {
		return 0
	}
	return d
}

// FormatAmount renders v rounded to three decimals with trailing zeros
// dropped: 75 → "75", 0.8 → "0.8", 2.9996 → "3".
func FormatAmount(v float64) string {
	return humanize.FtoaWithDigits(decimal.NewFromFloat(v).Round(3).InexactFloat64(), 3)
}
