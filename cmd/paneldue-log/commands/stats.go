package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/paneldue/paneldue-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	RequestsByKind    map[string]int
	Responses         map[string]*ResponseStats
	Sessions          map[string]*SessionStats
	Restarts          int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ResponseStats holds statistics for one subsystem.
type ResponseStats struct {
	Count        int
	Values       int
	Unknown      int
	LatencyCount int
	LatencyTotal time.Duration
	LatencyMax   time.Duration
}

// MeanLatency returns the mean response latency, or 0 if none was logged.
func (r *ResponseStats) MeanLatency() time.Duration {
	if r.LatencyCount == 0 {
		return 0
	}
	return r.LatencyTotal / time.Duration(r.LatencyCount)
}

// SessionStats holds statistics for one link session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Endpoint  string
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		RequestsByKind:    make(map[string]int),
		Responses:         make(map[string]*ResponseStats),
		Sessions:          make(map[string]*SessionStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}
	if event.Endpoint != "" && sess.Endpoint == "" {
		sess.Endpoint = event.Endpoint
	}

	switch {
	case event.Request != nil:
		s.RequestsByKind[event.Request.Kind]++
	case event.Response != nil:
		r, ok := s.Responses[event.Response.Subsystem]
		if !ok {
			r = &ResponseStats{}
			s.Responses[event.Response.Subsystem] = r
		}
		r.Count++
		r.Values += event.Response.Values
		r.Unknown += event.Response.Unknown
		if l := event.Response.Latency; l != nil {
			r.LatencyCount++
			r.LatencyTotal += *l
			r.LatencyMax = max(r.LatencyMax, *l)
		}
		if event.Response.Restarted {
			s.Restarts++
		}
	case event.Error != nil:
		s.Errors++
	}
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats := newStats()
	err := forEach(path, log.Filter{}, func(event log.Event) error {
		stats.add(event)
		return nil
	})
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Panel Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire, log.LayerModel} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryPoll, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.RequestsByKind) > 0 {
		fmt.Fprintln(w, "Requests:")
		for _, kind := range sortedKeys(stats.RequestsByKind) {
			fmt.Fprintf(w, "  %-12s %d\n", kind+":", stats.RequestsByKind[kind])
		}
		fmt.Fprintln(w)
	}

	if len(stats.Responses) > 0 {
		fmt.Fprintln(w, "Responses:")
		for _, sub := range sortedKeys(stats.Responses) {
			r := stats.Responses[sub]
			fmt.Fprintf(w, "  %-12s %d (%d values", sub+":", r.Count, r.Values)
			if r.Unknown > 0 {
				fmt.Fprintf(w, ", %d unknown", r.Unknown)
			}
			fmt.Fprint(w, ")")
			if r.LatencyCount > 0 {
				fmt.Fprintf(w, " latency mean %s max %s", formatDuration(r.MeanLatency()), formatDuration(r.LatencyMax))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(s.id), s.stats.Events, duration)
			if s.stats.Endpoint != "" {
				fmt.Fprintf(w, "           Endpoint: %s\n", s.stats.Endpoint)
			}
		}
	}

	if stats.Restarts > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Controller Restarts: %d\n", stats.Restarts)
	}
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
