package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func logJSON(t *testing.T, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	adapter.Log(event)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterFrame(t *testing.T) {
	entry := logJSON(t, Event{
		Timestamp: time.Now(),
		SessionID: "s-1",
		Direction: DirectionIn,
		Layer:     LayerTransport,
		Endpoint:  "/dev/ttyACM0",
		Frame:     &FrameEvent{Size: 12, Data: []byte(`{"seq":1}`)},
	})

	if entry["msg"] != "protocol" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["session"] != "s-1" {
		t.Errorf("session: got %v", entry["session"])
	}
	if entry["direction"] != "IN" {
		t.Errorf("direction: got %v", entry["direction"])
	}
	if entry["endpoint"] != "/dev/ttyACM0" {
		t.Errorf("endpoint: got %v", entry["endpoint"])
	}
	if entry["line"] != `{"seq":1}` {
		t.Errorf("line: got %v", entry["line"])
	}
}

func TestSlogAdapterResponseAndState(t *testing.T) {
	entry := logJSON(t, Event{
		Layer:    LayerWire,
		Response: &ResponseEvent{Subsystem: "tools", Values: 8, Unknown: 2, Restarted: true},
	})
	if entry["subsystem"] != "tools" || entry["values"] != float64(8) || entry["unknown"] != float64(2) {
		t.Errorf("response attrs: got %v", entry)
	}
	if entry["restarted"] != true {
		t.Errorf("restarted: got %v", entry["restarted"])
	}

	entry = logJSON(t, Event{
		Layer:       LayerModel,
		Category:    CategoryState,
		StateChange: &StateChangeEvent{Entity: StateEntityPrinter, OldState: "IDLE", NewState: "PRINTING"},
	})
	if entry["entity"] != "PRINTER" || entry["new_state"] != "PRINTING" {
		t.Errorf("state attrs: got %v", entry)
	}
}
