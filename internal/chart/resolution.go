package chart

import (
	"fmt"
	"math"

	"github.com/MatrixRex/daamtrack/internal/domain"
)

// AutoPolicy holds the span thresholds used to pick a resolution when the
// user leaves the mode on auto. The defaults favor readability over
// density; earlier revisions of the UI shipped tighter thresholds, so this
// is deliberately configuration rather than contract.
type AutoPolicy struct {
	// DailyMaxDays is the largest inclusive day-span still rendered daily.
	DailyMaxDays int
	// WeeklyMaxDays is the largest inclusive day-span rendered weekly.
	// Anything beyond it becomes monthly.
	WeeklyMaxDays int
}

// DefaultAutoPolicy returns the shipped thresholds: up to one year daily,
// up to five years weekly, monthly beyond that.
func DefaultAutoPolicy() AutoPolicy {
	return AutoPolicy{
		DailyMaxDays:  365,
		WeeklyMaxDays: 5 * 365,
	}
}

// EffectiveResolution resolves the auto mode against the display span.
// An explicit user override always wins.
func EffectiveResolution(mode domain.Resolution, start, end domain.Day, policy AutoPolicy) domain.Resolution {
	if mode != domain.ResolutionAuto && mode != "" {
		return mode
	}
	span := domain.DaysBetween(start, end) + 1
	switch {
	case span <= policy.DailyMaxDays:
		return domain.ResolutionDaily
	case span <= policy.WeeklyMaxDays:
		return domain.ResolutionWeekly
	default:
		return domain.ResolutionMonthly
	}
}

// Aggregate collapses contiguous daily rows into coarser buckets using the
// selected reducer. It is the identity for daily resolution. Groups keep
// the first-seen order of the (already chronological) input scan; no
// re-sorting happens.
//
// Within a bucket, per item: if any actual (bare-channel) day exists, the
// reducer collapses those actual values, the result is rounded to the
// nearest integer, and written to both channels — a bucket counts as real
// when it contains at least one real day. Buckets with only extended days
// fall back to the first ext value, approximating the flat extension at
// coarser granularity.
func Aggregate(rows []domain.Row, names []string, resolution domain.Resolution, reducer domain.Reducer) []domain.Row {
	if resolution == domain.ResolutionDaily || resolution == domain.ResolutionAuto || len(rows) == 0 {
		return rows
	}

	var keys []string
	groups := make(map[string][]domain.Row)
	for _, row := range rows {
		key := groupKey(row.Date, resolution)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}

	out := make([]domain.Row, 0, len(keys))
	for _, key := range keys {
		bucket := groups[key]
		first := bucket[0]

		row := domain.Row{
			Key:       key,
			Date:      first.Date,
			DateShort: first.DateShort,
			FullDate:  first.FullDate,
			Values:    make(map[string]domain.RowValue, len(names)),
		}
		switch resolution {
		case domain.ResolutionMonthly:
			row.DateShort = first.Date.MonthShortLabel()
			row.FullDate = first.Date.MonthFullLabel()
		case domain.ResolutionYearly:
			row.DateShort = fmt.Sprintf("%d", first.Date.Year())
			row.FullDate = row.DateShort
		}

		for _, name := range names {
			var actuals []float64
			var firstExt *float64
			for _, r := range bucket {
				v := r.Value(name)
				if v.Actual != nil {
					actuals = append(actuals, *v.Actual)
				}
				if firstExt == nil && v.Ext != nil {
					ext := *v.Ext
					firstExt = &ext
				}
			}

			var val domain.RowValue
			if len(actuals) > 0 {
				reduced := math.Round(reduce(actuals, reducer))
				actual := reduced
				ext := reduced
				val.Actual = &actual
				val.Ext = &ext
			} else if firstExt != nil {
				val.Ext = firstExt
			}
			row.Values[name] = val
		}

		out = append(out, row)
	}

	return out
}

// groupKey maps a day to its bucket identifier.
func groupKey(d domain.Day, resolution domain.Resolution) string {
	switch resolution {
	case domain.ResolutionYearly:
		return fmt.Sprintf("%d", d.Year())
	case domain.ResolutionMonthly:
		return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
	case domain.ResolutionWeekly:
		return d.StartOfWeek().String()
	default:
		return d.String()
	}
}

// reduce collapses values with the selected statistic.
func reduce(values []float64, reducer domain.Reducer) float64 {
	switch reducer {
	case domain.ReducerMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case domain.ReducerMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	default: // avg
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	}
}
