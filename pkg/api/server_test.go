package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paneldue/paneldue-go/pkg/inspect"
	"github.com/paneldue/paneldue-go/pkg/link"
	"github.com/paneldue/paneldue-go/pkg/metrics"
	"github.com/paneldue/paneldue-go/pkg/model"
	"github.com/paneldue/paneldue-go/pkg/seq"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

type fakeSource struct {
	store *model.Store
	seqs  map[wire.Subsystem]seq.Entry
	stats link.Stats
}

func (f *fakeSource) View(fn func(*model.Store))              { fn(f.store) }
func (f *fakeSource) ID() string                              { return "session-1" }
func (f *fakeSource) Sequences() map[wire.Subsystem]seq.Entry { return f.seqs }
func (f *fakeSource) Stats() link.Stats                       { return f.stats }

func newSource() *fakeSource {
	store := model.NewStore()
	store.SetToolHeater(0, 1)
	store.SetHeaterActive(1, 200)
	store.Machine().Status = wire.PrinterStatusPrinting
	return &fakeSource{
		store: store,
		seqs: map[wire.Subsystem]seq.Entry{
			wire.SubsystemMove: {LastSeen: 4, Seen: true, Dirty: true},
			wire.SubsystemHeat: {LastSeen: seq.Unseen},
		},
		stats: link.Stats{Initialized: true, Restarts: 1, LastResponse: time.Unix(100, 0)},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStatus(t *testing.T) {
	h := NewHandler(newSource(), Config{LinkState: func() string { return "CONNECTED" }})
	rec := get(t, h, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-1", resp.Session)
	assert.Equal(t, "CONNECTED", resp.Link)
	assert.Equal(t, "processing", resp.Machine.Status)
	assert.True(t, resp.Initialized)
	assert.Equal(t, 1, resp.Restarts)
	require.NotNil(t, resp.LastResponse)
}

func TestModel(t *testing.T) {
	h := NewHandler(newSource(), Config{})

	t.Run("Full", func(t *testing.T) {
		rec := get(t, h, "/api/model")
		require.Equal(t, http.StatusOK, rec.Code)
		var snap inspect.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		require.Len(t, snap.Tools, 1)
		assert.Equal(t, 1, snap.Tools[0].Heater)
		require.Len(t, snap.Heaters, 1)
		assert.EqualValues(t, 200, snap.Heaters[0].Active)
		assert.NotNil(t, snap.Axes)
	})

	t.Run("Section", func(t *testing.T) {
		rec := get(t, h, "/api/model/heat")
		require.Equal(t, http.StatusOK, rec.Code)
		var heaters []inspect.HeaterInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &heaters))
		require.Len(t, heaters, 1)
		assert.Equal(t, 1, heaters[0].Index)
	})

	t.Run("UnknownSection", func(t *testing.T) {
		rec := get(t, h, "/api/model/widgets")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSeqs(t *testing.T) {
	h := NewHandler(newSource(), Config{})
	rec := get(t, h, "/api/seqs")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []SeqEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Equal(t, []SeqEntry{
		{Subsystem: "heat", LastSeen: -1},
		{Subsystem: "move", LastSeen: 4, Dirty: true},
	}, entries)
}

func TestMetricsRoute(t *testing.T) {
	t.Run("Enabled", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		m.Request("HEARTBEAT")
		h := NewHandler(newSource(), Config{Gatherer: reg})

		rec := get(t, h, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), `paneldue_requests_total{kind="HEARTBEAT"} 1`))
	})

	t.Run("Disabled", func(t *testing.T) {
		h := NewHandler(newSource(), Config{})
		assert.Equal(t, http.StatusNotFound, get(t, h, "/metrics").Code)
	})
}

func TestSessionImplementsSource(t *testing.T) {
	var _ Source = link.NewSession(link.DefaultConfig(), nil)
}
