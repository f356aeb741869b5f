// Package export serializes a resolved chart dataset to the download
// formats offered by the comparison view: CSV, XLSX, and JSON.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/MatrixRex/daamtrack/internal/chart"
)

// header builds the flat column layout shared by the CSV and XLSX
// writers: the bucket date, then a value and extended-value column pair
// per item, in selection order.
func header(names []string) []string {
	cols := make([]string, 0, 1+2*len(names))
	cols = append(cols, "date")
	for _, name := range names {
		cols = append(cols, name, name+"_ext")
	}
	return cols
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteCSV writes the dataset rows as CSV. Undefined values are left as
// empty cells.
func WriteCSV(w io.Writer, res chart.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(res.Names)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, 0, 1+2*len(res.Names))
	for _, row := range res.Rows {
		record = record[:0]
		record = append(record, row.Key)
		for _, name := range res.Names {
			v := row.Value(name)
			record = append(record, formatValue(v.Actual), formatValue(v.Ext))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Key, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
