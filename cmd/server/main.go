// Package main runs the price explorer API server: catalog search,
// one-shot dataset queries, dataset export, and live comparison sessions
// over WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MatrixRex/daamtrack/internal/api"
	"github.com/MatrixRex/daamtrack/internal/chart"
	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/search"
	"github.com/MatrixRex/daamtrack/internal/storage"
	chstore "github.com/MatrixRex/daamtrack/internal/storage/clickhouse"
	"github.com/MatrixRex/daamtrack/internal/storage/memory"
	"github.com/MatrixRex/daamtrack/internal/storage/migrations"
	pgstore "github.com/MatrixRex/daamtrack/internal/storage/postgres"
)

// stores holds the two storage backends behind the API.
type stores struct {
	items   storage.ItemStore
	history storage.PriceHistoryStore
}

func main() {
	loadEnvFile()

	addr := flag.String("addr", envOr("DAAMTRACK_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	dailyMax := flag.Int("auto-daily-max", 365, "Largest day-span still charted daily in auto resolution")
	weeklyMax := flag.Int("auto-weekly-max", 5*365, "Largest day-span charted weekly in auto resolution")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	index, err := buildIndex(ctx, st.items)
	if err != nil {
		logger.Fatalf("Failed to build search index: %v", err)
	}
	logger.Printf("Catalog index ready: %d items", index.Len())

	policy := chart.AutoPolicy{DailyMaxDays: *dailyMax, WeeklyMaxDays: *weeklyMax}
	server, err := api.NewServer(api.Options{
		Items:      st.items,
		History:    st.history,
		Index:      index,
		AutoPolicy: &policy,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}
	server.SetReady(true)

	httpServer := &http.Server{Addr: *addr, Handler: server.Handler()}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		server.SetReady(false)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores builds the storage backends, applying migrations for the
// database-backed pair.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*stores, func(), error) {
	if useMemory {
		return &stores{
			items:   memory.NewItemStore(),
			history: memory.NewPriceHistoryStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouse(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("prepare clickhouse: %w", err)
	}

	st := &stores{
		items:   pgstore.NewItemStore(pool),
		history: chstore.NewPriceHistoryStore(chConn),
	}
	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return st, cleanup, nil
}

// buildIndex loads the whole catalog into the search index.
func buildIndex(ctx context.Context, items storage.ItemStore) (*search.Index, error) {
	all, err := items.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog := make([]domain.Item, len(all))
	for i, item := range all {
		catalog[i] = *item
	}
	return search.NewIndex(catalog), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
