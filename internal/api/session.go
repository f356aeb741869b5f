package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/MatrixRex/daamtrack/internal/chart"
	"github.com/MatrixRex/daamtrack/internal/domain"
	"github.com/MatrixRex/daamtrack/internal/unit"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The explorer UI is served from arbitrary dev hosts.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Command is one client message on a session socket.
//
//	{"type": "select", "items": ["Rice", "Soybean Oil"]}
//	{"type": "config", "start": "2024-01-01", "end": "2024-03-31",
//	 "resolution": "weekly", "aggregation": "avg", "mass": 1}
//
// A select with an empty item list clears the comparison (and the color
// registry with it). Config fields are absolute, not deltas: every config
// message carries the full display state.
type Command struct {
	Type        string   `json:"type"`
	Items       []string `json:"items,omitempty"`
	Start       string   `json:"start,omitempty"`
	End         string   `json:"end,omitempty"`
	Resolution  string   `json:"resolution,omitempty"`
	Aggregation string   `json:"aggregation,omitempty"`
	Mass        *float64 `json:"mass,omitempty"`
	Volume      *float64 `json:"volume,omitempty"`
	Count       *float64 `json:"count,omitempty"`
}

// Event is one server message on a session socket.
type Event struct {
	Type    string        `json:"type"` // dataset | stats | error
	Dataset *chart.Result `json:"dataset,omitempty"`
	Stats   []domain.Stat `json:"stats,omitempty"`
	Message string        `json:"message,omitempty"`
}

// session is one live comparison: a websocket plus its own pipeline.
type session struct {
	server *Server
	conn   *websocket.Conn
	wmu    sync.Mutex // serializes writes; onStats pushes race the reply
	pipe   *chart.Pipeline
}

// handleSession upgrades the connection and runs the session loop until
// the client goes away.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[api] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := &session{server: s, conn: conn}
	pipe, err := chart.NewPipeline(chart.Options{
		Store:      s.history,
		AutoPolicy: &s.policy,
		OnStats:    sess.pushStats,
		Logger:     s.logger,
	})
	if err != nil {
		s.logger.Printf("[api] session pipeline: %v", err)
		return
	}
	sess.pipe = pipe

	s.trackSession(1)
	defer s.trackSession(-1)
	s.logger.Printf("[api] session opened from %s", r.RemoteAddr)

	sess.run(r)
	s.logger.Printf("[api] session closed from %s", r.RemoteAddr)
}

func (sess *session) run(r *http.Request) {
	for {
		var cmd Command
		if err := sess.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.server.logger.Printf("[api] session read: %v", err)
			}
			return
		}

		switch cmd.Type {
		case "select":
			sess.handleSelect(r, cmd)
		case "config":
			sess.handleConfig(cmd)
		default:
			sess.sendError("unknown command type %q", cmd.Type)
		}
	}
}

func (sess *session) handleSelect(r *http.Request, cmd Command) {
	items, err := sess.server.resolveItems(r, cmd.Items)
	if err != nil {
		sess.sendError("resolve selection: %v", err)
		return
	}
	res := sess.pipe.SetSelection(r.Context(), items)
	sess.sendDataset(res)
}

func (sess *session) handleConfig(cmd Command) {
	cfg := sess.pipe.Config()
	var err error

	if cmd.Start != "" {
		if cfg.StartDate, err = domain.ParseDay(cmd.Start); err != nil {
			sess.sendError("invalid start date: %v", err)
			return
		}
	}
	if cmd.End != "" {
		if cfg.EndDate, err = domain.ParseDay(cmd.End); err != nil {
			sess.sendError("invalid end date: %v", err)
			return
		}
	}
	if cfg.EndDate.IsZero() {
		cfg.EndDate = domain.Today()
	}
	if cfg.StartDate.IsZero() {
		cfg.StartDate = cfg.EndDate.AddDays(-(defaultWindowDays - 1))
	}

	if cfg.Resolution, err = domain.ParseResolution(cmd.Resolution); err != nil {
		sess.sendError("%v", err)
		return
	}
	if cfg.Aggregation, err = domain.ParseReducer(cmd.Aggregation); err != nil {
		sess.sendError("%v", err)
		return
	}

	if cmd.Mass != nil || cmd.Volume != nil || cmd.Count != nil {
		cfg.Targets = &unit.Targets{Mass: cmd.Mass, Volume: cmd.Volume, Count: cmd.Count}
	} else {
		cfg.Targets = nil
	}

	sess.sendDataset(sess.pipe.SetConfig(cfg))
}

func (sess *session) sendDataset(res chart.Result) {
	sess.server.countDataset()
	sess.send(Event{Type: "dataset", Dataset: &res})
}

// pushStats is the pipeline's onStats callback; it fires only when the
// stats content actually changed.
func (sess *session) pushStats(stats []domain.Stat) {
	sess.send(Event{Type: "stats", Stats: stats})
}

func (sess *session) sendError(format string, args ...any) {
	sess.send(Event{Type: "error", Message: fmt.Sprintf(format, args...)})
}

func (sess *session) send(ev Event) {
	sess.wmu.Lock()
	defer sess.wmu.Unlock()
	if err := sess.conn.WriteJSON(ev); err != nil {
		sess.server.logger.Printf("[api] session write: %v", err)
	}
}

// ensure Event stays JSON-encodable with flattened rows.
var _ json.Marshaler = domain.Row{}
