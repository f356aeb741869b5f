package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MatrixRex/daamtrack/internal/chart"
	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/export"
	"github.com/MatrixRex/daamtrack/internal/storage"
	"github.com/MatrixRex/daamtrack/internal/unit"
)

const maxSearchResults = 50

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}

// handleItems serves catalog search: GET /api/items?q=rice.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	items := s.index.Search(r.URL.Query().Get("q"), maxSearchResults)
	writeJSON(w, http.StatusOK, items)
}

// handleHistory serves a one-shot dataset:
// GET /api/history?items=Rice,Soybean+Oil&start=2024-01-01&end=2024-03-31
//
//	&resolution=weekly&aggregation=avg&mass=1&volume=1&count=12
//
// Each request gets its own throwaway pipeline (cache, palette, stats
// memory), so colors are deterministic per item order rather than sticky —
// stickiness is what /ws sessions are for.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	res, err := s.buildDataset(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return
	}
	s.countDataset()
	writeJSON(w, http.StatusOK, res)
}

// handleExport serves the same dataset serialized for download:
// GET /api/export?format=csv|xlsx|json&… (history params apply).
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	res, err := s.buildDataset(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return
	}
	s.countDataset()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="prices.csv"`)
		err = export.WriteCSV(w, res)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="prices.xlsx"`)
		err = export.WriteXLSX(w, res)
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="prices.json"`)
		err = export.WriteJSON(w, res)
	default:
		httpError(w, http.StatusBadRequest, "unknown format %q", format)
		return
	}
	if err != nil {
		s.logger.Printf("[api] export %s failed: %v", format, err)
	}
}

// buildDataset resolves request parameters and runs the pipeline once.
func (s *Server) buildDataset(r *http.Request) (chart.Result, error) {
	q := r.URL.Query()

	names := splitList(q.Get("items"))
	if len(names) == 0 {
		return chart.Result{}, fmt.Errorf("items parameter is required")
	}
	items, err := s.resolveItems(r, names)
	if err != nil {
		return chart.Result{}, err
	}

	cfg, err := configFromQuery(q)
	if err != nil {
		return chart.Result{}, err
	}

	p, err := chart.NewPipeline(chart.Options{
		Store:      s.history,
		AutoPolicy: &s.policy,
		Logger:     s.logger,
	})
	if err != nil {
		return chart.Result{}, err
	}
	p.SetConfig(cfg)
	return p.SetSelection(r.Context(), items), nil
}

// resolveItems looks names up in the catalog. Unknown names stay in the
// selection as bare items: their series comes back empty and the dataset
// simply has nothing for them, mirroring how a stale selection behaves.
func (s *Server) resolveItems(r *http.Request, names []string) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(names))
	for _, name := range names {
		item, err := s.items.GetByName(r.Context(), name)
		switch {
		case err == nil:
			items = append(items, *item)
		case errors.Is(err, storage.ErrNotFound):
			items = append(items, domain.Item{Name: name})
		default:
			return nil, fmt.Errorf("look up item %q: %w", name, err)
		}
	}
	return items, nil
}

// configFromQuery parses window, resolution, reducer, and normalization
// parameters, applying the default 90-day window and clamping the end
// date to today.
func configFromQuery(q map[string][]string) (chart.Config, error) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	today := domain.Today()

	var cfg chart.Config
	var err error

	if v := get("start"); v != "" {
		if cfg.StartDate, err = domain.ParseDay(v); err != nil {
			return cfg, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if v := get("end"); v != "" {
		if cfg.EndDate, err = domain.ParseDay(v); err != nil {
			return cfg, fmt.Errorf("invalid end date: %w", err)
		}
	}
	if cfg.EndDate.IsZero() || cfg.EndDate.After(today) {
		cfg.EndDate = today
	}
	if cfg.StartDate.IsZero() {
		cfg.StartDate = cfg.EndDate.AddDays(-(defaultWindowDays - 1))
	}

	if cfg.Resolution, err = domain.ParseResolution(get("resolution")); err != nil {
		return cfg, err
	}
	if cfg.Aggregation, err = domain.ParseReducer(get("aggregation")); err != nil {
		return cfg, err
	}

	if cfg.Targets, err = targetsFromQuery(get); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// targetsFromQuery reads the per-dimension normalization quantities
// (mass=1&volume=1&count=12). Absent keys mean no normalization for that
// dimension; all absent means none at all.
func targetsFromQuery(get func(string) string) (*unit.Targets, error) {
	var targets unit.Targets
	set := false
	for key, dst := range map[string]**float64{
		"mass":   &targets.Mass,
		"volume": &targets.Volume,
		"count":  &targets.Count,
	} {
		v := get(key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid %s target %q", key, v)
		}
		*dst = &f
		set = true
	}
	if !set {
		return nil, nil
	}
	return &targets, nil
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
