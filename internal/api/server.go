// Package api exposes the price explorer over HTTP: catalog search,
// one-shot dataset queries, dataset export, live comparison sessions over
// WebSocket, and health/status.
package api

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MatrixRex/daamtrack/internal/chart"
	"github.com/MatrixRex/daamtrack/internal/search"
	"github.com/MatrixRex/daamtrack/internal/storage"
)

// defaultWindowDays is the display window used when a request names no
// date range: the last 90 days ending today.
const defaultWindowDays = 90

// Server wires the stores and the search index to the HTTP surface.
// Construct it, call SetReady once bootstrap (migrations, index build)
// finishes, and serve Handler().
type Server struct {
	items   storage.ItemStore
	history storage.PriceHistoryStore
	index   *search.Index
	policy  chart.AutoPolicy
	logger  *log.Logger

	started time.Time
	ready   atomic.Bool

	mu       sync.Mutex
	sessions int
	datasets int
}

// Options configures a Server.
type Options struct {
	Items      storage.ItemStore
	History    storage.PriceHistoryStore
	Index      *search.Index
	AutoPolicy *chart.AutoPolicy
	Logger     *log.Logger
}

// NewServer validates options and builds a Server. The server starts not
// ready; requests against /api/* and /ws get 503 until SetReady(true).
func NewServer(opts Options) (*Server, error) {
	if opts.Items == nil || opts.History == nil {
		return nil, fmt.Errorf("api: both stores are required")
	}
	if opts.Index == nil {
		return nil, fmt.Errorf("api: search index is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	policy := chart.DefaultAutoPolicy()
	if opts.AutoPolicy != nil {
		policy = *opts.AutoPolicy
	}
	return &Server{
		items:   opts.Items,
		history: opts.History,
		index:   opts.Index,
		policy:  policy,
		logger:  logger,
		started: time.Now(),
	}, nil
}

// SetReady flips the readiness gate.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", s.handleStatus)

	mux.HandleFunc("/api/items", s.gated(s.handleItems))
	mux.HandleFunc("/api/history", s.gated(s.handleHistory))
	mux.HandleFunc("/api/export", s.gated(s.handleExport))
	mux.HandleFunc("/ws", s.gated(s.handleSession))

	return mux
}

// gated rejects requests until the server is ready.
func (s *Server) gated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			httpError(w, http.StatusServiceUnavailable, "starting up")
			return
		}
		next(w, r)
	}
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status       string `json:"status"`
	Ready        bool   `json:"ready"`
	Uptime       string `json:"uptime"`
	CatalogItems int    `json:"catalog_items"`
	Sessions     int    `json:"sessions"`
	DatasetsSent int    `json:"datasets_sent"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sessions := s.sessions
	datasets := s.datasets
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:       "running",
		Ready:        s.ready.Load(),
		Uptime:       time.Since(s.started).String(),
		CatalogItems: s.index.Len(),
		Sessions:     sessions,
		DatasetsSent: datasets,
	})
}

func (s *Server) trackSession(delta int) {
	s.mu.Lock()
	s.sessions += delta
	s.mu.Unlock()
}

func (s *Server) countDataset() {
	s.mu.Lock()
	s.datasets++
	s.mu.Unlock()
}
