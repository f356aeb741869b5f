// Package main loads a scraped price CSV into the catalog and
// price-history stores.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/MatrixRex/daamtrack/internal/ingest"
	"github.com/MatrixRex/daamtrack/internal/storage"
	chstore "github.com/MatrixRex/daamtrack/internal/storage/clickhouse"
	"github.com/MatrixRex/daamtrack/internal/storage/memory"
	"github.com/MatrixRex/daamtrack/internal/storage/migrations"
	pgstore "github.com/MatrixRex/daamtrack/internal/storage/postgres"
)

func main() {
	loadEnvFile()

	csvPath := flag.String("csv", "", "Path to the scraper CSV (date,name,price,unit,category,image)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Parse and validate only, against in-memory stores")

	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	if *csvPath == "" {
		logger.Fatal("--csv is required")
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for a dry run)")
	}

	ctx := context.Background()

	items, history, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	f, err := os.Open(*csvPath)
	if err != nil {
		logger.Fatalf("Failed to open CSV: %v", err)
	}
	defer f.Close()

	records, skipped, err := ingest.ParseCSV(f)
	if err != nil {
		logger.Fatalf("Failed to parse CSV: %v", err)
	}
	if skipped > 0 {
		logger.Printf("Skipped %d malformed rows", skipped)
	}
	logger.Printf("Parsed %d records from %s", len(records), *csvPath)

	loader, err := ingest.NewLoader(ingest.Options{
		Items:   items,
		History: history,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatalf("Failed to create loader: %v", err)
	}

	sum, err := loader.Load(ctx, records)
	if err != nil {
		logger.Fatalf("Load failed: %v", err)
	}
	logger.Printf("Done: %d items inserted (%d existing), %d points inserted (%d skipped)",
		sum.ItemsInserted, sum.ItemsExisting, sum.PointsInserted, sum.PointsSkipped)
}

// createStores builds the storage backends, applying migrations for the
// database-backed pair.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.ItemStore, storage.PriceHistoryStore, func(), error) {
	if useMemory {
		return memory.NewItemStore(), memory.NewPriceHistoryStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouse(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("prepare clickhouse: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewItemStore(pool), chstore.NewPriceHistoryStore(chConn), cleanup, nil
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
