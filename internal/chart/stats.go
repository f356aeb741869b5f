package chart

import (
	"github.com/MatrixRex/daamtrack/internal/domain"
)

// Summarize derives per-item summary statistics from the non-aggregated,
// non-normalized daily rows. Only bare-channel (actual) values count;
// extended days are display sugar and would skew min/max. Items with no
// actual value in range produce no Stat at all.
//
// current is the last actual value, change is current minus the
// second-to-last. A single-point series reports zero change.
func Summarize(rows []domain.Row, items []domain.Item, colorOf func(name string) string) []domain.Stat {
	stats := make([]domain.Stat, 0, len(items))
	for _, item := range items {
		var values []float64
		for _, row := range rows {
			if v := row.Value(item.Name); v.Actual != nil {
				values = append(values, *v.Actual)
			}
		}
		if len(values) == 0 {
			continue
		}

		current := values[len(values)-1]
		previous := current
		if len(values) > 1 {
			previous = values[len(values)-2]
		}
		min, max := values[0], values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}

		stats = append(stats, domain.Stat{
			Name:    item.Name,
			Color:   colorOf(item.Name),
			Current: current,
			Min:     min,
			Max:     max,
			Change:  current - previous,
		})
	}
	return stats
}

// statsEqual reports structural equality of two stat slices, order
// included. Used to suppress duplicate notifications to the rendering
// layer.
func statsEqual(a, b []domain.Stat) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
