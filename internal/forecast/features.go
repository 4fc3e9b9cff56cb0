// internal/forecast/features.go
package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/freshmark/backend-go/internal/domain"
)

// FeatureCount is the width of the engineered feature vector.
const FeatureCount = 8

// FeatureRow is one historical day turned into model inputs plus its label.
type FeatureRow struct {
	Date           time.Time
	DayOfWeek      float64
	DayOfMonth     float64
	Month          float64
	DaysSinceStart float64
	Lag1           float64
	Lag7           float64
	MovingAvg7     float64
	MovingAvg14    float64
	UnitsSold      float64
}

// Vector returns the features in their fixed training order.
func (r FeatureRow) Vector() []float64 {
	return []float64{
		r.DayOfWeek,
		r.DayOfMonth,
		r.Month,
		r.DaysSinceStart,
		r.Lag1,
		r.Lag7,
		r.MovingAvg7,
		r.MovingAvg14,
	}
}

// weekdayIndex maps Go weekdays onto Monday=0 .. Sunday=6.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// sortedCopy returns the series ordered ascending by date without mutating
// the caller's slice.
func sortedCopy(series []domain.SalesRecord) []domain.SalesRecord {
	out := append([]domain.SalesRecord(nil), series...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// BuildFeatures turns a raw sales series into one feature row per historical
// date. The input is sorted defensively; an empty series yields an empty
// result. Lag features that have no history yet are backfilled from the next
// available value, then zero-filled.
func BuildFeatures(series []domain.SalesRecord) []FeatureRow {
	if len(series) == 0 {
		return nil
	}

	records := sortedCopy(series)
	start := records[0].Date

	rows := make([]FeatureRow, len(records))
	for i, rec := range records {
		row := FeatureRow{
			Date:           rec.Date,
			DayOfWeek:      float64(weekdayIndex(rec.Date)),
			DayOfMonth:     float64(rec.Date.Day()),
			Month:          float64(rec.Date.Month()),
			DaysSinceStart: rec.Date.Sub(start).Hours() / 24,
			UnitsSold:      float64(rec.UnitsSold),
		}

		if i >= 1 {
			row.Lag1 = float64(records[i-1].UnitsSold)
		} else {
			row.Lag1 = math.NaN()
		}
		if i >= 7 {
			row.Lag7 = float64(records[i-7].UnitsSold)
		} else {
			row.Lag7 = math.NaN()
		}

		row.MovingAvg7 = trailingMean(records, i, 7)
		row.MovingAvg14 = trailingMean(records, i, 14)

		rows[i] = row
	}

	backfillLags(rows)
	return rows
}

// trailingMean averages units sold over the window ending at index i,
// shrinking near the series start (minimum one observation).
func trailingMean(records []domain.SalesRecord, i, window int) float64 {
	lo := i - window + 1
	if lo < 0 {
		lo = 0
	}
	sum := 0.0
	for j := lo; j <= i; j++ {
		sum += float64(records[j].UnitsSold)
	}
	return sum / float64(i-lo+1)
}

// backfillLags propagates the next available lag value backward over leading
// gaps, then zero-fills anything still missing.
func backfillLags(rows []FeatureRow) {
	fill := func(get func(*FeatureRow) *float64) {
		next := math.NaN()
		for i := len(rows) - 1; i >= 0; i-- {
			v := get(&rows[i])
			if math.IsNaN(*v) {
				*v = next
			} else {
				next = *v
			}
		}
		for i := range rows {
			v := get(&rows[i])
			if math.IsNaN(*v) {
				*v = 0
			}
		}
	}

	fill(func(r *FeatureRow) *float64 { return &r.Lag1 })
	fill(func(r *FeatureRow) *float64 { return &r.Lag7 })
}
