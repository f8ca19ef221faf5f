// Package api serves a read-only HTTP view of the link.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paneldue/paneldue-go/pkg/inspect"
	"github.com/paneldue/paneldue-go/pkg/link"
	"github.com/paneldue/paneldue-go/pkg/seq"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// Source is the link state served by the API. *link.Session implements it.
type Source interface {
	inspect.Viewer
	ID() string
	Sequences() map[wire.Subsystem]seq.Entry
	Stats() link.Stats
}

// Config configures the handler.
type Config struct {
	// Gatherer backs /metrics. Nil omits the route.
	Gatherer prometheus.Gatherer

	// LinkState reports the connection state. Nil reports "unknown".
	LinkState func() string

	// Logger receives request errors. Nil disables them.
	Logger *slog.Logger
}

// Server holds the handler dependencies.
type Server struct {
	source    Source
	inspector *inspect.Inspector
	config    Config
}

// NewHandler creates the HTTP handler.
func NewHandler(source Source, config Config) http.Handler {
	s := &Server{
		source:    source,
		inspector: inspect.NewInspector(source),
		config:    config,
	}

	r := chi.NewRouter()
	r.Get("/api/status", s.Status)
	r.Get("/api/model", s.Model)
	r.Get("/api/model/{section}", s.Section)
	r.Get("/api/seqs", s.Seqs)
	if config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// StatusResponse is returned by /api/status.
type StatusResponse struct {
	Session      string              `json:"session"`
	Link         string              `json:"link"`
	Machine      inspect.MachineInfo `json:"machine"`
	Initialized  bool                `json:"initialized"`
	Restarts     int                 `json:"restarts"`
	Ticks        uint64              `json:"ticks"`
	SendErrors   uint64              `json:"sendErrors"`
	Heartbeats   uint64              `json:"heartbeats"`
	Scoped       uint64              `json:"scoped"`
	Resends      uint64              `json:"resends"`
	LastResponse *time.Time          `json:"lastResponse,omitempty"`
}

// SeqEntry is one row of /api/seqs.
type SeqEntry struct {
	Subsystem string `json:"subsystem"`
	LastSeen  int    `json:"lastSeen"`
	Dirty     bool   `json:"dirty"`
}

// Status handles GET /api/status.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	stats := s.source.Stats()
	resp := StatusResponse{
		Session:     s.source.ID(),
		Link:        "unknown",
		Machine:     s.inspector.Snapshot().Machine,
		Initialized: stats.Initialized,
		Restarts:    stats.Restarts,
		Ticks:       stats.Ticks,
		SendErrors:  stats.SendErrors,
		Heartbeats:  stats.Poll.Heartbeats,
		Scoped:      stats.Poll.Scoped,
		Resends:     stats.Poll.Resends,
	}
	if s.config.LinkState != nil {
		resp.Link = s.config.LinkState()
	}
	if !stats.LastResponse.IsZero() {
		resp.LastResponse = &stats.LastResponse
	}
	s.writeJSON(w, resp)
}

// Model handles GET /api/model.
func (s *Server) Model(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.inspector.Snapshot())
}

// Section handles GET /api/model/{section}.
func (s *Server) Section(w http.ResponseWriter, r *http.Request) {
	sec, ok := inspect.ResolveSectionName(chi.URLParam(r, "section"))
	if !ok {
		http.Error(w, "unknown section", http.StatusNotFound)
		return
	}
	snap := s.inspector.Snapshot()
	var body any
	switch sec {
	case inspect.SectionMachine:
		body = snap.Machine
	case inspect.SectionJob:
		body = snap.Job
	case inspect.SectionFiles:
		body = snap.Files
	case inspect.SectionAxes:
		body = snap.Axes
	case inspect.SectionTools:
		body = snap.Tools
	case inspect.SectionSpindles:
		body = snap.Spindles
	case inspect.SectionHeaters:
		body = snap.Heaters
	case inspect.SectionBeds:
		body = snap.Beds
	case inspect.SectionChambers:
		body = snap.Chambers
	}
	s.writeJSON(w, body)
}

// Seqs handles GET /api/seqs.
func (s *Server) Seqs(w http.ResponseWriter, r *http.Request) {
	seqs := s.source.Sequences()
	out := make([]SeqEntry, 0, len(seqs))
	for sub, e := range seqs {
		last := -1
		if e.Seen {
			last = int(e.LastSeen)
		}
		out = append(out, SeqEntry{Subsystem: sub.Key(), LastSeen: last, Dirty: e.Dirty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subsystem < out[j].Subsystem })
	s.writeJSON(w, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil && s.config.Logger != nil {
		s.config.Logger.Warn("response encode failed", "error", err)
	}
}
