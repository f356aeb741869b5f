// Package main dumps a chart dataset to a file without running the
// server: pick items, a window, and a format, get a CSV/XLSX/JSON file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/MatrixRex/daamtrack/internal/chart"
	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/export"
	chstore "github.com/MatrixRex/daamtrack/internal/storage/clickhouse"
	pgstore "github.com/MatrixRex/daamtrack/internal/storage/postgres"
	"github.com/MatrixRex/daamtrack/internal/unit"
)

func main() {
	loadEnvFile()

	items := flag.String("items", "", "Comma-separated item names")
	start := flag.String("start", "", "Window start (YYYY-MM-DD), default 90 days back")
	end := flag.String("end", "", "Window end (YYYY-MM-DD), default today")
	resolution := flag.String("resolution", "auto", "daily|weekly|monthly|yearly|auto")
	aggregation := flag.String("aggregation", "avg", "avg|min|max")
	mass := flag.Float64("mass", 0, "Normalize mass-priced items to this many kg (0 = off)")
	volume := flag.Float64("volume", 0, "Normalize volume-priced items to this many liters (0 = off)")
	count := flag.Float64("count", 0, "Normalize count-priced items to this many pieces (0 = off)")
	format := flag.String("format", "csv", "csv|xlsx|json")
	out := flag.String("out", "-", "Output file, - for stdout")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")

	flag.Parse()

	logger := log.New(os.Stderr, "[export] ", log.LstdFlags)

	if *items == "" {
		logger.Fatal("--items is required")
	}
	if *postgresDSN == "" || *clickhouseDSN == "" {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required")
	}

	ctx := context.Background()

	cfg, err := buildConfig(*start, *end, *resolution, *aggregation, *mass, *volume, *count)
	if err != nil {
		logger.Fatalf("Invalid parameters: %v", err)
	}

	res, err := buildDataset(ctx, *postgresDSN, *clickhouseDSN, splitList(*items), cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to build dataset: %v", err)
	}

	w := io.Writer(os.Stdout)
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "csv":
		err = export.WriteCSV(w, res)
	case "xlsx":
		err = export.WriteXLSX(w, res)
	case "json":
		err = export.WriteJSON(w, res)
	default:
		logger.Fatalf("Unknown format %q", *format)
	}
	if err != nil {
		logger.Fatalf("Export failed: %v", err)
	}

	logger.Printf("Wrote %d rows, %d stats (%s resolution)", len(res.Rows), len(res.Stats), res.Resolution)
}

func buildConfig(start, end, resolution, aggregation string, mass, volume, count float64) (chart.Config, error) {
	var cfg chart.Config
	var err error

	if end != "" {
		if cfg.EndDate, err = domain.ParseDay(end); err != nil {
			return cfg, fmt.Errorf("invalid end date: %w", err)
		}
	} else {
		cfg.EndDate = domain.Today()
	}
	if start != "" {
		if cfg.StartDate, err = domain.ParseDay(start); err != nil {
			return cfg, fmt.Errorf("invalid start date: %w", err)
		}
	} else {
		cfg.StartDate = cfg.EndDate.AddDays(-89)
	}

	if cfg.Resolution, err = domain.ParseResolution(resolution); err != nil {
		return cfg, err
	}
	if cfg.Aggregation, err = domain.ParseReducer(aggregation); err != nil {
		return cfg, err
	}

	targets := &unit.Targets{}
	set := false
	for _, t := range []struct {
		value float64
		dst   **float64
	}{
		{mass, &targets.Mass},
		{volume, &targets.Volume},
		{count, &targets.Count},
	} {
		if t.value > 0 {
			v := t.value
			*t.dst = &v
			set = true
		}
	}
	if set {
		cfg.Targets = targets
	}
	return cfg, nil
}

func buildDataset(ctx context.Context, postgresDSN, clickhouseDSN string, names []string, cfg chart.Config, logger *log.Logger) (chart.Result, error) {
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return chart.Result{}, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	chConn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		return chart.Result{}, fmt.Errorf("connect to clickhouse: %w", err)
	}
	defer chConn.Close()

	itemStore := pgstore.NewItemStore(pool)
	selection := make([]domain.Item, 0, len(names))
	for _, name := range names {
		item, err := itemStore.GetByName(ctx, name)
		if err != nil {
			logger.Printf("Item %q not in catalog, exporting raw series", name)
			selection = append(selection, domain.Item{Name: name})
			continue
		}
		selection = append(selection, *item)
	}

	p, err := chart.NewPipeline(chart.Options{
		Store:  chstore.NewPriceHistoryStore(chConn),
		Logger: logger,
	})
	if err != nil {
		return chart.Result{}, err
	}
	p.SetConfig(cfg)
	return p.SetSelection(ctx, selection), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
