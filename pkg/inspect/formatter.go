package inspect

import (
	"fmt"
	"strings"
	"time"

	"github.com/paneldue/paneldue-go/pkg/model"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowSlots includes display slot assignments.
	ShowSlots bool

	// ShowHidden includes axes that are not visible.
	ShowHidden bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowSlots:   false,
		ShowHidden:  true,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatValue formats a value for display with an optional unit.
func (f *Formatter) FormatValue(value any, unit string) string {
	if value == nil {
		return "null"
	}

	var s string
	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return fmt.Sprintf("%q", v)
	case float32:
		s = fmt.Sprintf("%.2f", v)
	case float64:
		s = fmt.Sprintf("%.2f", v)
	default:
		s = fmt.Sprintf("%v", v)
	}
	if unit != "" {
		return s + " " + unit
	}
	return s
}

// FormatIndex formats an entity reference, "-" for none.
func FormatIndex(i int) string {
	if i <= model.NoIndex {
		return "-"
	}
	return fmt.Sprintf("%d", i)
}

// FormatTimeLeft formats seconds remaining, "-" when unknown.
func FormatTimeLeft(seconds int32) string {
	if seconds < 0 {
		return "-"
	}
	return (time.Duration(seconds) * time.Second).String()
}

// FormatUpTime formats the controller uptime in seconds.
func FormatUpTime(seconds uint32) string {
	return (time.Duration(seconds) * time.Second).String()
}

// Row is one name/value line.
type Row struct {
	Name  string
	Value string
}

// FormatRows formats rows as an aligned list.
func (f *Formatter) FormatRows(depth int, rows []Row) string {
	if len(rows) == 0 {
		return f.Indent(depth, "(none)") + "\n"
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Name))
	}
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(f.Indent(depth, fmt.Sprintf("%-*s  %s", width, r.Name+":", r.Value)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatMachine formats the machine and job state.
func (f *Formatter) FormatMachine(m MachineInfo, j JobInfo) string {
	rows := []Row{
		{"status", m.Status},
		{"name", m.Name},
		{"ip", m.IP},
		{"firmware", m.Firmware},
		{"uptime", FormatUpTime(m.UpTime)},
		{"current tool", FormatIndex(m.CurrentTool)},
		{"axes", fmt.Sprintf("%d", m.NumAxes)},
		{"fan", f.FormatValue(m.FanPercent, "%")},
		{"speed", f.FormatValue(m.SpeedPercent, "%")},
	}
	if m.IsDelta {
		rows = append(rows, Row{"kinematics", "delta"})
	}
	if j.FileName != "" {
		rows = append(rows,
			Row{"job", j.FileName},
			Row{"progress", f.FormatValue(j.Progress, "%")},
			Row{"time left", FormatTimeLeft(j.FileLeft)},
		)
	}
	if m.Message != "" {
		rows = append(rows, Row{"message", m.Message})
	}
	if m.Alert != "" {
		rows = append(rows, Row{"alert", m.Alert})
	}
	return f.FormatRows(1, rows)
}

// FormatAxis formats one axis line.
func (f *Formatter) FormatAxis(a AxisInfo) string {
	s := fmt.Sprintf("%s[%d] user=%s machine=%s homed=%t",
		a.Letter, a.Index, f.FormatValue(a.UserPosition, "mm"), f.FormatValue(a.MachinePosition, "mm"), a.Homed)
	if !a.Visible {
		s += " hidden"
	}
	if f.ShowSlots {
		s += fmt.Sprintf(" slot=%d slotP=%d", a.Slot, a.SlotP)
	}
	return s
}

// FormatTool formats one tool line.
func (f *Formatter) FormatTool(t ToolInfo) string {
	s := fmt.Sprintf("T%d heater=%s extruder=%s spindle=%s %s",
		t.Index, FormatIndex(t.Heater), FormatIndex(t.Extruder), FormatIndex(t.Spindle), t.Status)
	if f.ShowSlots {
		s += fmt.Sprintf(" slot=%d jog=%d job=%d", t.Slot, t.SlotPJog, t.SlotPJob)
	}
	return s
}

// FormatSpindle formats one spindle line.
func (f *Formatter) FormatSpindle(s SpindleInfo) string {
	return fmt.Sprintf("S%d active=%s current=%s max=%s tool=%s", s.Index,
		f.FormatValue(s.Active, "rpm"), f.FormatValue(s.Current, "rpm"), f.FormatValue(s.Max, "rpm"), FormatIndex(s.Tool))
}

// FormatHeater formats one heater line.
func (f *Formatter) FormatHeater(h HeaterInfo) string {
	s := fmt.Sprintf("H%d %s active=%s standby=%s %s", h.Index,
		f.FormatValue(h.Current, "C"), f.FormatValue(h.Active, "C"), f.FormatValue(h.Standby, "C"), h.Status)
	if f.ShowSlots {
		s += fmt.Sprintf(" slot=%d", h.Slot)
	}
	return s
}

// FormatBed formats one bed or chamber line.
func (f *Formatter) FormatBed(kind string, b BedInfo) string {
	s := fmt.Sprintf("%s%d heater=%s", kind, b.Index, FormatIndex(b.Heater))
	if f.ShowSlots {
		s += fmt.Sprintf(" slot=%d", b.Slot)
	}
	return s
}

// FormatSnapshot formats the whole model.
func (f *Formatter) FormatSnapshot(s Snapshot) string {
	var sb strings.Builder
	sb.WriteString("machine\n")
	sb.WriteString(f.FormatMachine(s.Machine, s.Job))
	for _, sec := range []Section{SectionAxes, SectionTools, SectionSpindles, SectionHeaters, SectionBeds, SectionChambers} {
		lines := f.sectionLines(s, sec, -1)
		if len(lines) == 0 {
			continue
		}
		sb.WriteString(sec.String() + "\n")
		for _, l := range lines {
			sb.WriteString(f.Indent(1, l) + "\n")
		}
	}
	return sb.String()
}

// sectionLines returns one line per entity of sec, only index when >= 0.
func (f *Formatter) sectionLines(s Snapshot, sec Section, index int) []string {
	var lines []string
	keep := func(i int) bool { return index < 0 || i == index }
	switch sec {
	case SectionAxes:
		for _, a := range s.Axes {
			if keep(a.Index) && (f.ShowHidden || a.Visible || index >= 0) {
				lines = append(lines, f.FormatAxis(a))
			}
		}
	case SectionTools:
		for _, t := range s.Tools {
			if keep(t.Index) {
				lines = append(lines, f.FormatTool(t))
			}
		}
	case SectionSpindles:
		for _, sp := range s.Spindles {
			if keep(sp.Index) {
				lines = append(lines, f.FormatSpindle(sp))
			}
		}
	case SectionHeaters:
		for _, h := range s.Heaters {
			if keep(h.Index) {
				lines = append(lines, f.FormatHeater(h))
			}
		}
	case SectionBeds:
		for _, b := range s.Beds {
			if keep(b.Index) {
				lines = append(lines, f.FormatBed("B", b))
			}
		}
	case SectionChambers:
		for _, c := range s.Chambers {
			if keep(c.Index) {
				lines = append(lines, f.FormatBed("C", c))
			}
		}
	}
	return lines
}
