package chart

import (
	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/unit"
)

// ApplyNormalization rescales every value in rows to the per-dimension
// target quantities, using each item's declared unit label. Items whose
// dimension has no target pass through unchanged, as does everything when
// targets is nil. Input rows are never mutated; the result is a fresh
// slice. Normalization runs after aggregation, so a rounded bucket value
// may come out fractional again.
func ApplyNormalization(rows []domain.Row, items []domain.Item, targets *unit.Targets) []domain.Row {
	if targets == nil || len(rows) == 0 {
		return rows
	}

	unitByName := make(map[string]string, len(items))
	for _, item := range items {
		unitByName[item.Name] = item.Unit
	}

	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		scaled := domain.Row{
			Key:       row.Key,
			Date:      row.Date,
			DateShort: row.DateShort,
			FullDate:  row.FullDate,
			Values:    make(map[string]domain.RowValue, len(row.Values)),
		}
		for name, v := range row.Values {
			label := unitByName[name]
			var nv domain.RowValue
			if v.Actual != nil {
				actual := unit.NormalizedPrice(*v.Actual, label, targets)
				nv.Actual = &actual
			}
			if v.Ext != nil {
				ext := unit.NormalizedPrice(*v.Ext, label, targets)
				nv.Ext = &ext
			}
			scaled.Values[name] = nv
		}
		out[i] = scaled
	}
	return out
}
