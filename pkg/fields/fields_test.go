package fields

import (
	"strings"
	"testing"

	"github.com/paneldue/paneldue-go/pkg/wire"
)

func TestTableSorted(t *testing.T) {
	for i := 1; i < len(table); i++ {
		if table[i-1].key >= table[i].key {
			t.Errorf("table out of order at %d: %q >= %q", i, table[i-1].key, table[i].key)
		}
	}
	for i := 1; i < len(keyTable); i++ {
		if keyTable[i-1].key >= keyTable[i].key {
			t.Errorf("keyTable out of order at %d: %q >= %q", i, keyTable[i-1].key, keyTable[i].key)
		}
	}
	for _, e := range table {
		if e.key != strings.ToLower(e.key) {
			t.Errorf("table key %q is not lower case", e.key)
		}
	}
}

func TestEveryFieldResolves(t *testing.T) {
	if len(table) != NumFields-1 {
		t.Fatalf("table has %d entries, want %d", len(table), NumFields-1)
	}
	for id := FieldID(1); int(id) < NumFields; id++ {
		path := id.Path()
		if got := Lookup(path); got != id {
			t.Errorf("Lookup(%q) = %v, want %v", path, got, id)
		}
		if got := Lookup(strings.ToUpper(path)); got != id {
			t.Errorf("Lookup(%q) = %v, want %v", strings.ToUpper(path), got, id)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		path string
		want FieldID
	}{
		{"heat:heaters^:active", HeatHeatersActive},
		{"HEAT:HEATERS^:ACTIVE", HeatHeatersActive},
		{"Move:Axes^:Letter", MoveAxesLetter},
		{"state:messageBox", StateMessageBox},
		{"state:messageBox:seq", StateMessageBoxSeq},
		{"beep_freq", PushBeepFrequency},
		{"", Unknown},
		{"heat:heaters^", Unknown},
		{"heat:heaters^:activeX", Unknown},
		{"zzz", Unknown},
		{"a", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Lookup(tt.path); got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLookupKey(t *testing.T) {
	tests := []struct {
		key  string
		want wire.Subsystem
	}{
		{"", wire.SubsystemNone},
		{"move", wire.SubsystemMove},
		{"Tools", wire.SubsystemTools},
		{"VOLUMES", wire.SubsystemVolumes},
		{"seqs", wire.SubsystemSeqs},
		{"limits", wire.SubsystemLimits},
		{"bogus", wire.SubsystemUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := LookupKey(tt.key); got != tt.want {
				t.Errorf("LookupKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	for s := wire.SubsystemBoards; int(s) < wire.NumSubsystems; s++ {
		if got := LookupKey(s.Key()); got != s {
			t.Errorf("LookupKey(%q) = %v, want %v", s.Key(), got, s)
		}
	}
}

func TestFieldIDString(t *testing.T) {
	if Unknown.String() != "UNKNOWN" {
		t.Errorf("Unknown.String() = %q", Unknown.String())
	}
	if ToolsHeaters.String() != "tools^:heaters^" {
		t.Errorf("ToolsHeaters.String() = %q", ToolsHeaters.String())
	}
}
