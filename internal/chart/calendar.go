// Package chart implements the time-series transformation pipeline behind
// the price comparison view: dense calendar materialization, resolution
// re-bucketing, unit normalization, summary statistics, and per-item color
// assignment.
package chart

import (
	"github.com/MatrixRex/daamtrack/internal/domain"
)

// ItemBounds is the first/last observed value of one item across its whole
// cached series, not just the visible range. Bounds from all cached data
// let first/last-known-value extension work even when the display window
// starts before or ends after actual data availability.
type ItemBounds struct {
	FirstDate  domain.Day
	LastDate   domain.Day
	FirstValue float64
	LastValue  float64
}

// computeBounds derives ItemBounds from a chronologically ordered series.
// ok is false when the series is empty.
func computeBounds(series []*domain.Observation) (bounds ItemBounds, ok bool) {
	if len(series) == 0 {
		return ItemBounds{}, false
	}
	first := series[0]
	last := series[len(series)-1]
	return ItemBounds{
		FirstDate:  first.Date,
		LastDate:   last.Date,
		FirstValue: first.Price,
		LastValue:  last.Price,
	}, true
}

// SeriesLookup resolves an item name to its cached chronological series.
// Unknown names yield nil.
type SeriesLookup func(name string) []*domain.Observation

// Materialize turns sparse per-item observations into one Row per calendar
// day covering [start, end] inclusive. Each item's value for each day is
// resolved under a three-zone policy:
//
//   - actual observation: both the bare and ext channels carry the value
//   - before the first observation: ext carries the first known value
//     (flat extension backward), bare stays undefined
//   - after the last observation: ext carries the last known value
//     (flat extension forward), bare stays undefined
//   - a true gap between two observations: both channels stay undefined;
//     the renderer connects across the gap on the ext channel
//
// An invalid range (either end missing, or end before start) produces an
// empty sequence rather than an error.
func Materialize(start, end domain.Day, items []domain.Item, lookup SeriesLookup) []domain.Row {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}

	type itemSeries struct {
		name   string
		byDay  map[string]float64
		bounds ItemBounds
		hasAny bool
	}

	series := make([]itemSeries, 0, len(items))
	for _, item := range items {
		obs := lookup(item.Name)
		s := itemSeries{name: item.Name, byDay: make(map[string]float64, len(obs))}
		for _, o := range obs {
			s.byDay[o.Date.String()] = o.Price
		}
		s.bounds, s.hasAny = computeBounds(obs)
		series = append(series, s)
	}

	multiYear := start.Year() != end.Year()
	total := domain.DaysBetween(start, end) + 1

	rows := make([]domain.Row, 0, total)
	for d := start; !d.After(end); d = d.AddDays(1) {
		row := domain.Row{
			Key:       d.String(),
			Date:      d,
			DateShort: d.ShortLabel(multiYear),
			FullDate:  d.FullLabel(),
			Values:    make(map[string]domain.RowValue, len(series)),
		}

		dayKey := d.String()
		for _, s := range series {
			var v domain.RowValue
			switch {
			case !s.hasAny:
				// Nothing to show for this item at all.
			case hasValue(s.byDay, dayKey):
				price := s.byDay[dayKey]
				v.Actual = &price
				ext := price
				v.Ext = &ext
			case d.Before(s.bounds.FirstDate):
				ext := s.bounds.FirstValue
				v.Ext = &ext
			case d.After(s.bounds.LastDate):
				ext := s.bounds.LastValue
				v.Ext = &ext
			default:
				// True gap between two real observations: marked
				// connectable, never interpolated here.
			}
			row.Values[s.name] = v
		}

		rows = append(rows, row)
	}

	return rows
}

func hasValue(byDay map[string]float64, key string) bool {
	_, ok := byDay[key]
	return ok
}
