// Package ingest loads scraped price CSVs into the catalog and
// price-history stores.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MatrixRex/daamtrack/internal/domain"
)

// Record is one scraper CSV row.
type Record struct {
	Date     domain.Day
	Name     string
	Price    float64
	Unit     string
	Category string
	Image    string
}

// expected CSV layout, in column order.
var csvColumns = []string{"date", "name", "price", "unit", "category", "image"}

// ParseCSV reads scraper output. The header row is required and must
// match the expected columns. Malformed data rows are skipped and
// reported in the returned count rather than failing the whole file.
func ParseCSV(r io.Reader) ([]Record, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvColumns)

	head, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range csvColumns {
		if strings.TrimSpace(strings.ToLower(head[i])) != col {
			return nil, 0, fmt.Errorf("unexpected csv header %q, want %q", head[i], col)
		}
	}

	var records []Record
	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		rec, err := parseRow(row)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func parseRow(row []string) (Record, error) {
	date, err := domain.ParseDay(strings.TrimSpace(row[0]))
	if err != nil {
		return Record{}, fmt.Errorf("parse date: %w", err)
	}
	name := strings.TrimSpace(row[1])
	if name == "" {
		return Record{}, fmt.Errorf("empty name")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("parse price: %w", err)
	}
	if price < 0 {
		return Record{}, fmt.Errorf("negative price %v", price)
	}
	return Record{
		Date:     date,
		Name:     name,
		Price:    price,
		Unit:     strings.TrimSpace(row[3]),
		Category: strings.TrimSpace(row[4]),
		Image:    strings.TrimSpace(row[5]),
	}, nil
}
