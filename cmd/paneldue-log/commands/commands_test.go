package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paneldue/paneldue-go/pkg/log"
)

var t0 = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

func sampleEvents() []log.Event {
	latency := 42 * time.Millisecond
	return []log.Event{
		{
			Timestamp: t0,
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionIn,
			Layer:     log.LayerTransport,
			Category:  log.CategoryState,
			Endpoint:  "/dev/ttyACM0",
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityConnection,
				OldState: "CONNECTING",
				NewState: "CONNECTED",
			},
		},
		{
			Timestamp: t0.Add(10 * time.Millisecond),
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionOut,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Request:   &log.RequestEvent{Kind: "SCOPED", Key: "heat", Flags: "v", Line: "M409 K\"heat\" F\"v\"\n"},
		},
		{
			Timestamp: t0.Add(52 * time.Millisecond),
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionIn,
			Layer:     log.LayerTransport,
			Category:  log.CategoryMessage,
			Frame:     &log.FrameEvent{Size: 28, Data: []byte(`{"key":"heat","result":{}}`)},
		},
		{
			Timestamp: t0.Add(53 * time.Millisecond),
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Response:  &log.ResponseEvent{Subsystem: "heat", Values: 12, Unknown: 1, Latency: &latency},
		},
		{
			Timestamp: t0.Add(2 * time.Second),
			SessionID: "abc12345-6789-0123-4567-890abcdef012",
			Direction: log.DirectionIn,
			Layer:     log.LayerTransport,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Layer: log.LayerTransport, Message: "unexpected end of JSON input", Context: "flatten"},
		},
	}
}

func writeTrace(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "link.plog")
	logger, err := log.NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range sampleEvents() {
		logger.Log(e)
	}
	require.NoError(t, logger.Close())
	return path
}

func TestFormatEvent(t *testing.T) {
	events := sampleEvents()

	t.Run("State", func(t *testing.T) {
		var buf bytes.Buffer
		formatEvent(&buf, events[0])
		out := buf.String()
		assert.Contains(t, out, "2026-01-28T10:15:32.123456Z [session:abc12345] IN  TRANSPORT State")
		assert.Contains(t, out, "CONNECTING -> CONNECTED")
		assert.Contains(t, out, "Endpoint: /dev/ttyACM0")
	})

	t.Run("Request", func(t *testing.T) {
		var buf bytes.Buffer
		formatEvent(&buf, events[1])
		assert.Contains(t, buf.String(), "Kind: SCOPED")
		assert.Contains(t, buf.String(), `Line: M409 K"heat" F"v"`)
	})

	t.Run("Frame", func(t *testing.T) {
		var buf bytes.Buffer
		formatEvent(&buf, events[2])
		assert.Contains(t, buf.String(), "Size: 28 bytes")
		assert.Contains(t, buf.String(), `Line: "{\"key\":\"heat\",\"result\":{}}"`)
	})

	t.Run("Response", func(t *testing.T) {
		var buf bytes.Buffer
		formatEvent(&buf, events[3])
		assert.Contains(t, buf.String(), "Values: 12 (1 unknown)")
		assert.Contains(t, buf.String(), "Latency: 42.000ms")
	})

	t.Run("Error", func(t *testing.T) {
		var buf bytes.Buffer
		formatEvent(&buf, events[4])
		assert.Contains(t, buf.String(), "Message: unexpected end of JSON input")
		assert.Contains(t, buf.String(), "Context: flatten")
	})
}

func TestBuildFilter(t *testing.T) {
	f, err := BuildFilter(FilterOptions{Layer: "Wire", Direction: "out", Category: "poll", TimeStart: "2026-01-28T10:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, log.LayerWire, *f.Layer)
	assert.Equal(t, log.DirectionOut, *f.Direction)
	assert.Equal(t, log.CategoryPoll, *f.Category)
	assert.NotNil(t, f.TimeStart)

	for _, opts := range []FilterOptions{
		{Layer: "service"},
		{Direction: "up"},
		{Category: "control"},
		{TimeEnd: "yesterday"},
	} {
		_, err := BuildFilter(opts)
		assert.Error(t, err, "%+v", opts)
	}
}

func TestRunView(t *testing.T) {
	path := writeTrace(t)

	var buf bytes.Buffer
	layer := log.LayerWire
	require.NoError(t, RunView(path, log.Filter{Layer: &layer}, &buf))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "[session:abc12345]"))
	assert.Contains(t, out, "Request")
	assert.Contains(t, out, "Response")

	err := RunView(filepath.Join(t.TempDir(), "missing.plog"), log.Filter{}, &buf)
	assert.ErrorContains(t, err, "failed to open log file")
}

func TestRunFilter(t *testing.T) {
	path := writeTrace(t)
	output := filepath.Join(t.TempDir(), "heat.plog")

	var buf bytes.Buffer
	require.NoError(t, RunFilter(path, output, log.Filter{Subsystem: "heat"}, &buf))
	assert.Contains(t, buf.String(), "Filtered 2 events")

	reader, err := log.NewReader(output)
	require.NoError(t, err)
	defer reader.Close()
	e, err := reader.Next()
	require.NoError(t, err)
	require.NotNil(t, e.Request)
	assert.Equal(t, "heat", e.Request.Key)
}

func TestExport(t *testing.T) {
	path := writeTrace(t)

	t.Run("JSONL", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, export(path, "jsonl", log.Filter{}, &buf))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 5)

		var e log.Event
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &e))
		require.NotNil(t, e.Request)
		assert.Equal(t, "SCOPED", e.Request.Kind)
	})

	t.Run("CSV", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, export(path, "csv", log.Filter{}, &buf))
		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 6)
		assert.Equal(t, "session_id", rows[0][1])
		assert.Equal(t, []string{"Response", "heat", "12"}, rows[4][6:])
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		err := export(path, "xml", log.Filter{}, &bytes.Buffer{})
		assert.ErrorContains(t, err, "unknown format")
	})
}

func TestRunStats(t *testing.T) {
	path := writeTrace(t)

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))
	out := buf.String()
	assert.Contains(t, out, "Total Events: 5")
	assert.Contains(t, out, "SCOPED:")
	assert.Contains(t, out, "heat:        1 (12 values, 1 unknown) latency mean 42.000ms max 42.000ms")
	assert.Contains(t, out, "Sessions: 1")
	assert.Contains(t, out, "Endpoint: /dev/ttyACM0")
	assert.Contains(t, out, "Errors: 1")
	assert.NotContains(t, out, "Controller Restarts")
}
