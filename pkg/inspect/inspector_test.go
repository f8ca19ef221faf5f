package inspect

import (
	"errors"
	"strings"
	"testing"

	"github.com/paneldue/paneldue-go/pkg/model"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

type storeViewer struct {
	store *model.Store
}

func (v storeViewer) View(fn func(*model.Store)) { fn(v.store) }

func sampleStore() *model.Store {
	s := model.NewStore()
	s.SetAxisLetter(0, 'X')
	s.SetAxisVisible(0, true)
	s.SetAxisUserPosition(0, 12.5)
	s.SetAxisLetter(1, 'Y')
	s.SetAxisVisible(1, true)
	s.SetAxisLetter(2, 'U')
	s.SetToolHeater(0, 1)
	s.SetToolExtruder(0, 0)
	s.SetHeaterActive(1, 210)
	s.SetHeaterCurrent(1, 205.25)
	s.SetHeaterStatus(1, wire.ParseHeaterStatus("active"))
	s.SetBedHeater(0, 0)
	s.SetHeaterCurrent(0, 60)
	s.SetSpindleMax(0, 24000)
	s.AssignToolSlots()
	m := s.Machine()
	m.Status = wire.PrinterStatusIdle
	m.Name = "duet"
	m.UpTime = 3661
	return s
}

func TestTakeSnapshot(t *testing.T) {
	snap := TakeSnapshot(sampleStore())

	if snap.Machine.Status != "idle" || snap.Machine.Name != "duet" {
		t.Errorf("machine = %+v", snap.Machine)
	}
	if len(snap.Axes) != 3 || snap.Axes[0].Letter != "X" || snap.Axes[0].UserPosition != 12.5 {
		t.Errorf("axes = %+v", snap.Axes)
	}
	if len(snap.Tools) != 1 || snap.Tools[0].Heater != 1 || len(snap.Tools[0].Offsets) != model.MinAxes {
		t.Errorf("tools = %+v", snap.Tools)
	}
	if len(snap.Heaters) != 2 {
		t.Fatalf("heaters = %+v", snap.Heaters)
	}
	if snap.Heaters[0].Slot != 0 || snap.Heaters[1].Slot != 1 {
		t.Errorf("heater slots = %d, %d", snap.Heaters[0].Slot, snap.Heaters[1].Slot)
	}
	if len(snap.Beds) != 1 || len(snap.Chambers) != 0 || len(snap.Spindles) != 1 {
		t.Errorf("beds/chambers/spindles = %d/%d/%d", len(snap.Beds), len(snap.Chambers), len(snap.Spindles))
	}
	if snap.Job.FileLeft != -1 {
		t.Errorf("FileLeft = %d, want -1", snap.Job.FileLeft)
	}
}

func TestInspect(t *testing.T) {
	ins := NewInspector(storeViewer{sampleStore()})
	f := NewFormatter()

	tests := []struct {
		path string
		want []string
	}{
		{"machine", []string{"status:", "idle", "duet", "1h1m1s"}},
		{"tools", []string{"T0 heater=1 extruder=0 spindle=-"}},
		{"heaters/1", []string{"H1 205.25 C active=210 C"}},
		{"axes/0", []string{"X[0] user=12.50 mm"}},
		{"axes", []string{"U[2]", "hidden"}},
		{"beds", []string{"B0 heater=0"}},
		{"chambers", []string{"(none)"}},
		{"spindles/0", []string{"max=24000 rpm"}},
		{"job", []string{"file left:", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			out, err := ins.Inspect(p, f)
			if err != nil {
				t.Fatalf("Inspect() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}

	t.Run("Missing", func(t *testing.T) {
		p, _ := ParsePath("tools/5")
		if _, err := ins.Inspect(p, f); !errors.Is(err, ErrNotFound) {
			t.Errorf("Inspect() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("HiddenAxesSkipped", func(t *testing.T) {
		f := NewFormatter()
		f.ShowHidden = false
		p, _ := ParsePath("axes")
		out, _ := ins.Inspect(p, f)
		if strings.Contains(out, "U[2]") {
			t.Errorf("hidden axis shown: %q", out)
		}
	})
}

func TestFormatSnapshot(t *testing.T) {
	f := NewFormatter()
	f.ShowSlots = true
	out := f.FormatSnapshot(TakeSnapshot(sampleStore()))

	for _, w := range []string{"machine\n", "axes\n", "tools\n", "heaters\n", "beds\n", "slot=0"} {
		if !strings.Contains(out, w) {
			t.Errorf("snapshot output missing %q", w)
		}
	}
	if strings.Contains(out, "chambers\n") {
		t.Error("empty section should be omitted")
	}
}

func TestFormatHelpers(t *testing.T) {
	f := NewFormatter()
	tests := []struct {
		got, want string
	}{
		{f.FormatValue(nil, ""), "null"},
		{f.FormatValue(true, ""), "true"},
		{f.FormatValue("x", ""), `"x"`},
		{f.FormatValue(float32(1.5), "mm"), "1.50 mm"},
		{f.FormatValue(42, "%"), "42 %"},
		{FormatIndex(-1), "-"},
		{FormatIndex(3), "3"},
		{FormatTimeLeft(-1), "-"},
		{FormatTimeLeft(90), "1m30s"},
		{f.Indent(2, "x"), "    x"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
	if out := f.FormatRows(0, nil); out != "(none)\n" {
		t.Errorf("FormatRows(nil) = %q", out)
	}
}
