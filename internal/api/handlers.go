/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers of the observer API.
    Reads are served from the snapshot the engine publishes after every
    tick, so no handler ever touches live engine state. The only write,
    POST /api/command, does not execute anything: it appends the line to
    the same input queue the terminal feeds, and the tick loop runs it.

    Routes:
    - GET  /api/state       full latest snapshot
    - GET  /api/facilities  revealed facilities
    - GET  /api/upgrades    available and purchased upgrades
    - POST /api/command     {"line": "..."} -> 202 Accepted
    - GET  /ws              real-time pulses (see hub.go)
    - GET  /metrics         Prometheus exposition (when configured)
*/

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/everforgeworks/cookey-typer/internal/game"
)

const (
	maxLineBytes = 1024
	maxBacklog   = 256
)

// SnapshotSource is satisfied by *game.Engine.
type SnapshotSource interface {
	Latest() *game.Snapshot
}

// LineSink is satisfied by *console.Queue.
type LineSink interface {
	Push(line string)
	Len() int
}

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Line string `json:"line"`
}

// CommandResponse reports where the line landed in the queue.
type CommandResponse struct {
	Queued int `json:"queued"`
}

// Server bundles the handlers and their dependencies.
type Server struct {
	state   SnapshotSource
	input   LineSink
	hub     *Hub
	metrics http.Handler
	log     *log.Logger
}

// NewServer wires the API. hub and metrics may be nil to disable /ws and
// /metrics.
func NewServer(state SnapshotSource, input LineSink, hub *Hub, metrics http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{state: state, input: input, hub: hub, metrics: metrics, log: logger}
}

// Routes returns the router, wrapped in the CORS middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Information endpoints
	mux.HandleFunc("/api/state", s.HandleGetState)
	mux.HandleFunc("/api/facilities", s.HandleGetFacilities)
	mux.HandleFunc("/api/upgrades", s.HandleGetUpgrades)

	// Action endpoints
	mux.HandleFunc("/api/command", s.HandlePostCommand)

	if s.hub != nil {
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, w, r)
		})
	}
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return corsMiddleware(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// latest returns the snapshot or writes 503 when the engine has not
// published one yet.
func (s *Server) latest(w http.ResponseWriter, r *http.Request) *game.Snapshot {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return nil
	}
	snap := s.state.Latest()
	if snap == nil {
		http.Error(w, "Engine not ready", http.StatusServiceUnavailable)
		return nil
	}
	return snap
}

// HandleGetState returns the whole latest snapshot.
func (s *Server) HandleGetState(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleGetFacilities returns covered and shown facilities. Hidden ones are
// not disclosed.
func (s *Server) HandleGetFacilities(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w, r)
	if snap == nil {
		return
	}
	out := make([]game.FacilitySnapshot, 0, len(snap.Facilities))
	for _, f := range snap.Facilities {
		if f.Visual != game.Hidden {
			out = append(out, f)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetUpgrades returns every upgrade that is no longer locked.
func (s *Server) HandleGetUpgrades(w http.ResponseWriter, r *http.Request) {
	snap := s.latest(w, r)
	if snap == nil {
		return
	}
	out := make([]game.UpgradeSnapshot, 0, len(snap.Upgrades))
	for _, u := range snap.Upgrades {
		if u.State != game.Locked {
			out = append(out, u)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandlePostCommand enqueues one input line for the tick loop.
func (s *Server) HandlePostCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*maxLineBytes)).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// 1. Validation
	line := strings.TrimRight(req.Line, "\r\n")
	if strings.ContainsAny(line, "\r\n") || !utf8.ValidString(line) || len(line) > maxLineBytes {
		http.Error(w, "line must be a single valid UTF-8 line of at most 1024 bytes", http.StatusBadRequest)
		return
	}
	if s.input.Len() >= maxBacklog {
		http.Error(w, "input backlog full", http.StatusTooManyRequests)
		return
	}

	// 2. Hand over to the tick loop
	s.input.Push(line)
	s.log.Printf("[API] queued command from %s", r.RemoteAddr)
	writeJSON(w, http.StatusAccepted, CommandResponse{Queued: s.input.Len()})
}

// corsMiddleware lets browser dashboards on other origins read the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
